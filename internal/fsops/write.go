package fsops

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/go-pilot/internal/safety"
)

// WriteFile writes content to a file addressed by a relative path under the
// sandbox write root, creating parent directories as needed. An existing
// file keeps its permission bits.
func WriteFile(relPath, content string) error {
	_, writeRoot, err := getRoots()
	if err != nil {
		return err
	}

	absPath, err := safety.ValidateWritePath(writeRoot, relPath)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(absPath); err == nil {
		if fi.IsDir() {
			return safety.ToolError{Code: safety.CodeNotAFile, Message: "path is a directory"}
		}
		mode = fi.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(absPath, []byte(content), mode)
}

// CheckWritable reports whether relPath could be written, without touching
// the filesystem.
func CheckWritable(relPath string) error {
	_, writeRoot, err := getRoots()
	if err != nil {
		return err
	}
	_, err = safety.ValidateWritePath(writeRoot, relPath)
	return err
}
