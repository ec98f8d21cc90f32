package fsops

import (
	"os"

	"github.com/petasbytes/go-pilot/internal/safety"
)

// ReadFile returns the contents of relPath under the read root. A policy
// rejection or a directory target yields a safety.ToolError; anything else
// is the underlying os error.
func ReadFile(relPath string) (string, error) {
	readRoot, _, err := getRoots()
	if err != nil {
		return "", err
	}
	absPath, err := safety.ValidateRelPath(readRoot, relPath)
	if err != nil {
		return "", err
	}

	if fi, err := os.Stat(absPath); err != nil {
		return "", err
	} else if fi.IsDir() {
		return "", safety.ToolError{Code: safety.CodeNotAFile, Message: "path is a directory"}
	}

	b, err := os.ReadFile(absPath)
	return string(b), err
}
