package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveInsideWorkspace(t *testing.T) {
	root := t.TempDir()
	r := Resolver{Root: root}

	got, err := r.Resolve("sub/file.txt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.HasPrefix(got, canonicalize(root)) {
		t.Errorf("resolved path %q not under root %q", got, root)
	}
}

func TestResolveRejectsEscape(t *testing.T) {
	root := t.TempDir()
	r := Resolver{Root: root}

	for _, requested := range []string{
		"../outside.txt",
		"../../etc/passwd",
		"sub/../../outside.txt",
		"/etc/passwd",
	} {
		if _, err := r.Resolve(requested); err == nil {
			t.Errorf("Resolve(%q) should have failed", requested)
		}
	}
}

func TestResolveRejectsSymlinkEscape(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "workspace")
	outside := filepath.Join(base, "outside")
	for _, dir := range []string{root, outside} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	r := Resolver{Root: root}
	if _, err := r.Resolve("escape/secret.txt"); err == nil {
		t.Error("symlinked path outside root should have failed")
	}
}

func TestResolveNonexistentWriteTarget(t *testing.T) {
	root := t.TempDir()
	r := Resolver{Root: root}

	got, err := r.Resolve("new/deep/file.txt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join(canonicalize(root), "new", "deep", "file.txt")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
