package safety

import (
	"fmt"
	"path"
	"strings"
)

// Policy lists sandbox-relative locations that tools may not touch.
// Directory entries match the directory itself and everything beneath it;
// base names match a file of that name at any depth.
type Policy struct {
	DenyReadDirs   []string
	DenyWriteDirs  []string
	DenyWriteNames []string
}

// DefaultPolicy keeps VCS internals and agent state out of reach, and stops
// the model from rewriting module manifests.
var DefaultPolicy = Policy{
	DenyReadDirs:   []string{".git", ".agent"},
	DenyWriteDirs:  []string{".git", ".agent"},
	DenyWriteNames: []string{"go.mod", "go.sum"},
}

// ResolveRead validates relPath for reading and returns its absolute form.
func (p Policy) ResolveRead(absRoot, relPath string) (string, error) {
	abs, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if dir, ok := underAny(rel, p.DenyReadDirs); ok {
		return "", ToolError{Code: CodeDeniedRead, Message: fmt.Sprintf("reads under %s/ are not allowed", dir)}
	}
	return abs, nil
}

// ResolveWrite validates relPath for writing and returns its absolute form.
func (p Policy) ResolveWrite(absRoot, relPath string) (string, error) {
	abs, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", ToolError{Code: CodeNotAFile, Message: "cannot write to the sandbox root"}
	}
	if dir, ok := underAny(rel, p.DenyWriteDirs); ok {
		return "", ToolError{Code: CodeDeniedWrite, Message: fmt.Sprintf("writes under %s/ are not allowed", dir)}
	}
	base := path.Base(rel)
	for _, name := range p.DenyWriteNames {
		if base == name {
			return "", ToolError{Code: CodeDeniedWrite, Message: fmt.Sprintf("writes to %s are not allowed", name)}
		}
	}
	return abs, nil
}

func underAny(rel string, dirs []string) (string, bool) {
	for _, d := range dirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return d, true
		}
	}
	return "", false
}
