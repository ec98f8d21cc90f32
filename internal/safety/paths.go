// Package safety confines tool file access to a sandbox root.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Error codes surfaced to the model inside tool results.
const (
	CodeOutsideSandbox = "ERR_PATH_OUTSIDE_SANDBOX"
	CodeDeniedRead     = "ERR_DENIED_READ"
	CodeDeniedWrite    = "ERR_DENIED_WRITE"
	CodeNotAFile       = "ERR_NOT_A_FILE"
	CodeNotADirectory  = "ERR_NOT_A_DIRECTORY"
)

// ToolError is a machine-readable error body for surfacing back to the model as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool results small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// InitSandboxRoot resolves absolute sandbox roots for read and write operations.
// An empty readRoot means the working directory; an empty writeRoot follows readRoot.
func InitSandboxRoot(readRoot, writeRoot string) (absRead string, absWrite string, err error) {
	if readRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getwd: %w", err)
		}
		readRoot = cwd
	}
	if writeRoot == "" {
		writeRoot = readRoot
	}

	if absRead, err = absResolved(readRoot); err != nil {
		return "", "", fmt.Errorf("read root: %w", err)
	}
	if absWrite, err = absResolved(writeRoot); err != nil {
		return "", "", fmt.Errorf("write root: %w", err)
	}
	return absRead, absWrite, nil
}

// absResolved makes p absolute and resolves symlinks when the path exists.
func absResolved(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		return r, nil
	}
	return abs, nil
}

// ValidateRelPath resolves relPath for reading under absRoot using DefaultPolicy.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	return DefaultPolicy.ResolveRead(absRoot, relPath)
}

// ValidateWritePath resolves relPath for writing under absRoot using DefaultPolicy.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	return DefaultPolicy.ResolveWrite(absRoot, relPath)
}

// resolve joins relPath onto absRoot and returns the absolute candidate along
// with its slash-separated form relative to the root. Absolute inputs, parent
// traversal and symlink escapes are rejected.
func resolve(absRoot, relPath string) (abs string, rel string, err error) {
	if filepath.IsAbs(relPath) {
		return "", "", ToolError{Code: CodeOutsideSandbox, Message: "absolute paths are not allowed"}
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == "" {
		cleaned = "."
	}
	candidate, err := resolveExisting(filepath.Join(absRoot, cleaned))
	if err != nil {
		return "", "", err
	}

	r, err := filepath.Rel(absRoot, candidate)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) || filepath.IsAbs(r) {
		return "", "", ToolError{Code: CodeOutsideSandbox, Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(r), nil
}

// resolveExisting resolves symlinks in the deepest existing ancestor of p
// and rejoins the missing tail, so a link at any depth is followed before
// the containment check. An entry that exists but cannot be resolved, such
// as a dangling link, is rejected.
func resolveExisting(p string) (string, error) {
	var tail []string
	cur := p
	for {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if _, err := os.Lstat(cur); err == nil {
			return "", ToolError{Code: CodeOutsideSandbox, Message: "path contains an unresolvable link"}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		tail = append([]string{filepath.Base(cur)}, tail...)
		cur = parent
	}
}
