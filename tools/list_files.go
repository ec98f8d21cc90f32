package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/petasbytes/go-pilot/internal/fsops"
)

type ListFilesInput struct {
	Path     string `json:"path,omitempty" jsonschema_description:"Relative directory to list (defaults to the workspace root)."`
	Page     int    `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)."`
	PageSize int    `json:"page_size,omitempty" jsonschema_description:"Entries per page (default 200)."`
}

const defaultListFilesPageSize = 200

var ListFilesDefinition = ToolDefinition{
	Name:        "ls",
	Description: "List a directory within the workspace (non-recursive). Each line is \"[DIR] name\" or \"[FILE] name\", sorted by name.",
	InputSchema: ListFilesInputSchema,
	Function:    ListFiles,
}

var ListFilesInputSchema = GenerateSchema[ListFilesInput]()

// ListFiles lists one directory level through the sandbox and pages the
// sorted result. Defaults: page 1, page_size 200. An out-of-range page
// yields an empty listing; a trailing note tells the model when more pages
// exist.
func ListFiles(_ context.Context, input json.RawMessage) (string, error) {
	var in ListFilesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	page := max(in.Page, 1)
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultListFilesPageSize
	}

	entries, err := fsops.ListDir(in.Path)
	if err != nil {
		return "", err
	}

	pages := len(entries) / pageSize
	if len(entries)%pageSize != 0 {
		pages++
	}
	if page > pages {
		return "", nil
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(entries)-start)

	var b strings.Builder
	for i, e := range entries[start:end] {
		if i > 0 {
			b.WriteByte('\n')
		}
		kind := "FILE"
		if e.IsDir {
			kind = "DIR"
		}
		fmt.Fprintf(&b, "[%s] %s", kind, e.Name)
	}
	if end < len(entries) {
		fmt.Fprintf(&b, "\n-- %d more entries; request page %d --", len(entries)-end, page+1)
	}
	return b.String(), nil
}
