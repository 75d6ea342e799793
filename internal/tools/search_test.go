package tools

import (
	"context"
	"testing"
)

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"*.go", "main.go", true},
		{"*.go", "sub/main.go", false},
		{"**/*.go", "main.go", true},
		{"**/*.go", "a/b/main.go", true},
		{"src/**/*.txt", "src/deep/notes.txt", true},
		{"src/**/*.txt", "other/notes.txt", false},
		{"a/*/c", "a/b/c", true},
		{"a/*/c", "a/b/b/c", false},
	}
	for _, tt := range cases {
		if got := matchGlob(tt.pattern, tt.name); got != tt.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}

func TestExecGlob(t *testing.T) {
	tc := testContext(t)
	writeWorkspaceFile(t, tc, "main.go", "package main\n")
	writeWorkspaceFile(t, tc, "pkg/util.go", "package pkg\n")
	writeWorkspaceFile(t, tc, "README.md", "# readme\n")

	result, err := execGlob(context.Background(), tc, map[string]any{"pattern": "**/*.go"})
	if err != nil {
		t.Fatalf("execGlob: %v", err)
	}
	matches := result["matches"].([]string)
	if len(matches) != 2 {
		t.Fatalf("matches = %v", matches)
	}
}

func TestExecGrep(t *testing.T) {
	tc := testContext(t)
	writeWorkspaceFile(t, tc, "a.txt", "hello world\nsecond line\n")
	writeWorkspaceFile(t, tc, "b.md", "hello again\n")

	result, err := execGrep(context.Background(), tc, map[string]any{"pattern": "hello"})
	if err != nil {
		t.Fatalf("execGrep: %v", err)
	}
	results := result["results"].([]map[string]any)
	if len(results) != 2 {
		t.Fatalf("results = %v", results)
	}
}

func TestExecGrepInclude(t *testing.T) {
	tc := testContext(t)
	writeWorkspaceFile(t, tc, "a.txt", "hello\n")
	writeWorkspaceFile(t, tc, "b.md", "hello\n")

	result, err := execGrep(context.Background(), tc, map[string]any{
		"pattern": "hello",
		"include": "*.txt",
	})
	if err != nil {
		t.Fatalf("execGrep: %v", err)
	}
	results := result["results"].([]map[string]any)
	if len(results) != 1 || results[0]["file"] != "a.txt" {
		t.Fatalf("results = %v", results)
	}
	if results[0]["line"] != 1 || results[0]["text"] != "hello" {
		t.Errorf("unexpected match: %v", results[0])
	}
}

func TestExecGrepSkipsBinary(t *testing.T) {
	tc := testContext(t)
	writeWorkspaceFile(t, tc, "bin.dat", "hello\xff\xfe\x00")
	writeWorkspaceFile(t, tc, "a.txt", "hello\n")

	result, err := execGrep(context.Background(), tc, map[string]any{"pattern": "hello"})
	if err != nil {
		t.Fatalf("execGrep: %v", err)
	}
	results := result["results"].([]map[string]any)
	if len(results) != 1 || results[0]["file"] != "a.txt" {
		t.Fatalf("binary file should be skipped: %v", results)
	}
}

func TestExecGrepBadPattern(t *testing.T) {
	tc := testContext(t)
	if _, err := execGrep(context.Background(), tc, map[string]any{"pattern": "("}); err == nil {
		t.Error("expected compile error")
	}
}
