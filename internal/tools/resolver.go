package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver canonicalizes user-supplied paths against the workspace root and
// rejects anything that resolves outside it, including symlink escapes.
type Resolver struct {
	Root string
}

// Resolve returns the canonical absolute path for a workspace-relative (or
// absolute) request, or an error if it escapes the workspace root.
func (r Resolver) Resolve(requested string) (string, error) {
	root := strings.TrimSpace(r.Root)
	if root == "" {
		root = "."
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root: %w", err)
	}
	rootAbs = canonicalize(rootAbs)

	clean := strings.TrimSpace(requested)
	var target string
	if filepath.IsAbs(clean) {
		target = filepath.Clean(clean)
	} else {
		target = filepath.Join(rootAbs, clean)
	}
	target = canonicalize(target)

	rel, err := filepath.Rel(rootAbs, target)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes workspace root")
	}
	return target, nil
}

// canonicalize resolves symlinks on the deepest existing ancestor, then
// re-joins the non-existent remainder. Paths that do not exist yet (write
// targets) still canonicalize through their parents.
func canonicalize(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	dir, base := filepath.Split(filepath.Clean(path))
	dir = filepath.Clean(dir)
	if dir == path {
		return path
	}
	return filepath.Join(canonicalize(dir), base)
}
