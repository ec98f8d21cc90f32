package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/petasbytes/go-pilot/internal/diffview"
	"github.com/petasbytes/go-pilot/internal/fsops"
)

// ErrNotFound reports that old_content does not occur in the target file.
var ErrNotFound = errors.New("old_content not found")

type EditFileInput struct {
	Path       string `json:"path" jsonschema_description:"Relative path of the file to edit."`
	OldContent string `json:"old_content" jsonschema_description:"Exact text to replace. Only the first occurrence is replaced. Empty only when creating a new file."`
	NewContent string `json:"new_content" jsonschema_description:"Replacement text, or the full content of a new file."`
}

var EditFileInputSchema = GenerateSchema[EditFileInput]()

const editFileDescription = `Edit a text file addressed by a relative path within the workspace.

The first occurrence of old_content is replaced with new_content. The change is shown to the user as a diff and only applied after they approve it; a rejection is reported back and the file is left unchanged.

When the file does not exist and old_content is empty, a new file containing new_content is proposed instead.`

// NewEditFileDefinition returns the edit capability; every change goes through rev.
func NewEditFileDefinition(rev Reviewer) ToolDefinition {
	return ToolDefinition{
		Name:        "edit",
		Description: editFileDescription,
		InputSchema: EditFileInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			return editFile(ctx, rev, input)
		},
	}
}

func editFile(ctx context.Context, rev Reviewer, input json.RawMessage) (string, error) {
	var in EditFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if in.Path == "" {
		return "", errors.New("path must not be empty")
	}
	if in.OldContent == in.NewContent {
		return "", errors.New("old_content and new_content are identical")
	}
	if rev == nil {
		return "", errors.New("edits are disabled: no reviewer configured")
	}

	if err := fsops.CheckWritable(in.Path); err != nil {
		return "", err
	}

	current, err := fsops.ReadFile(in.Path)
	create := false
	switch {
	case err == nil:
		if in.OldContent == "" {
			return "", errors.New("old_content must be provided when editing an existing file")
		}
		if !strings.Contains(current, in.OldContent) {
			return "", fmt.Errorf("%w in %s", ErrNotFound, in.Path)
		}
	case errors.Is(err, fs.ErrNotExist) && in.OldContent == "":
		create = true
	default:
		return "", err
	}

	proposal := Proposal{
		Path:   in.Path,
		Create: create,
		Diff:   diffview.Compute(in.OldContent, in.NewContent, diffview.DefaultContext),
	}
	reply, err := rev.Review(ctx, proposal)
	if err != nil {
		return "", fmt.Errorf("review: %w", err)
	}
	if !IsApproval(reply) {
		return fmt.Sprintf("changes rejected by user; %s left unchanged", in.Path), nil
	}

	updated := in.NewContent
	if !create {
		updated = strings.Replace(current, in.OldContent, in.NewContent, 1)
	}
	if err := fsops.WriteFile(in.Path, updated); err != nil {
		return "", err
	}
	if create {
		return fmt.Sprintf("created %s", in.Path), nil
	}
	return fmt.Sprintf("changes applied to %s", in.Path), nil
}
