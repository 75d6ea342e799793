package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// splitLines splits file content into lines the way the transcript tools
// expect: a trailing newline does not produce a final empty line.
func splitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func execRead(_ context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	filePath := stringParam(params, "filePath")
	if filePath == "" {
		return nil, fmt.Errorf("missing filePath")
	}
	resolved, err := tc.resolver().Resolve(filePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	offset := intParam(params, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := intParam(params, "limit", 2000)

	lines := splitLines(string(data))
	if offset > len(lines) {
		offset = len(lines)
	}
	end := offset + limit
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for i, line := range lines[offset:end] {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%05d| %s", offset+i+1, line)
	}
	return map[string]any{"file": b.String()}, nil
}

func execWrite(_ context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	filePath := stringParam(params, "filePath")
	if filePath == "" {
		return nil, fmt.Errorf("missing filePath")
	}
	content := stringParam(params, "content")
	resolved, err := tc.resolver().Resolve(filePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create parent directories: %w", err)
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}
	return map[string]any{"ok": true}, nil
}

// applyStringEdit replaces oldString in content. Single-occurrence edits
// require exactly one match; replaceAll requires at least one.
func applyStringEdit(content, oldString, newString string, replaceAll bool) (string, error) {
	if replaceAll {
		if !strings.Contains(content, oldString) {
			return "", fmt.Errorf("oldString not found in content")
		}
		return strings.ReplaceAll(content, oldString, newString), nil
	}
	if strings.Count(content, oldString) != 1 {
		return "", fmt.Errorf("oldString must match exactly once")
	}
	return strings.Replace(content, oldString, newString, 1), nil
}

func execEdit(_ context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	filePath := stringParam(params, "filePath")
	oldString, hasOld := params["oldString"].(string)
	newString, hasNew := params["newString"].(string)
	if filePath == "" || !hasOld || !hasNew {
		return nil, fmt.Errorf("missing edit parameters")
	}
	resolved, err := tc.resolver().Resolve(filePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	content, err := applyStringEdit(string(data), oldString, newString, boolParam(params, "replaceAll"))
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}
	return map[string]any{"ok": true}, nil
}

func execMultiedit(_ context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	filePath := stringParam(params, "filePath")
	edits, ok := params["edits"].([]any)
	if filePath == "" || !ok {
		return nil, fmt.Errorf("missing edits")
	}
	resolved, err := tc.resolver().Resolve(filePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	// All edits apply in memory; the file is written once at the end so a
	// failure mid-list leaves it untouched.
	content := string(data)
	for _, rawEdit := range edits {
		edit, ok := rawEdit.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid edit")
		}
		oldString, hasOld := edit["oldString"].(string)
		newString, hasNew := edit["newString"].(string)
		if !hasOld || !hasNew {
			return nil, fmt.Errorf("invalid edit")
		}
		content, err = applyStringEdit(content, oldString, newString, boolParam(edit, "replaceAll"))
		if err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}
	return map[string]any{"ok": true}, nil
}

func execLs(_ context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	path := stringParam(params, "path")
	if path == "" {
		path = "."
	}
	resolved, err := tc.resolver().Resolve(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return map[string]any{"entries": names}, nil
}
