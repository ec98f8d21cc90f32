package fsops

import (
	"os"
	"sort"

	"github.com/petasbytes/go-pilot/internal/safety"
)

// Entry is one directory member as reported to tools.
type Entry struct {
	Name  string
	IsDir bool
}

// ListDir lists the non-recursive entries of a relative directory under the
// sandbox read root, sorted by name. An empty relDir lists the root itself.
func ListDir(relDir string) ([]Entry, error) {
	readRoot, _, err := getRoots()
	if err != nil {
		return nil, err
	}

	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(readRoot, relDir)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(absDir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, safety.ToolError{Code: safety.CodeNotADirectory, Message: "path is not a directory"}
	}

	dirents, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirents))
	for _, e := range dirents {
		entries = append(entries, Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	// os.ReadDir already sorts, but keep the contract explicit.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
