package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const (
	patchBegin      = "*** Begin Patch"
	patchEnd        = "*** End Patch"
	patchUpdateFile = "*** Update File:"
)

func execPatch(_ context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	patchText := stringParam(params, "patch")
	if patchText == "" {
		return nil, fmt.Errorf("missing patch")
	}
	return ApplyPatch(patchText, tc.resolver())
}

// ApplyPatch applies the restricted patch envelope: a "*** Begin Patch"
// header, one or more "*** Update File: <path>" sections, and a terminating
// "*** End Patch". Each section body is applied to its sandboxed file.
func ApplyPatch(patchText string, resolver Resolver) (map[string]any, error) {
	lines := strings.Split(patchText, "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], patchBegin) {
		return nil, fmt.Errorf("invalid patch header")
	}

	results := []map[string]any{}
	currentPath := ""
	var buffer []string

	flush := func() error {
		if currentPath == "" {
			return nil
		}
		if err := applyToFile(currentPath, strings.Join(buffer, "\n"), resolver); err != nil {
			return err
		}
		results = append(results, map[string]any{"file": currentPath, "ok": true})
		currentPath = ""
		buffer = nil
		return nil
	}

	for _, line := range lines[1:] {
		switch {
		case strings.HasPrefix(line, patchUpdateFile):
			if err := flush(); err != nil {
				return nil, err
			}
			currentPath = strings.TrimSpace(strings.TrimPrefix(line, patchUpdateFile))
		case strings.HasPrefix(line, patchEnd):
			if err := flush(); err != nil {
				return nil, err
			}
			return map[string]any{"results": results}, nil
		default:
			buffer = append(buffer, line)
		}
	}
	return map[string]any{"results": results}, nil
}

// applyToFile replays a hunk body against the file: "@@" markers are
// skipped, "+" lines are inserted, "-" lines consume a source line, and
// anything else copies the current source line forward. Source lines past
// the consumed prefix are appended verbatim.
func applyToFile(path, body string, resolver Resolver) error {
	target, err := resolver.Resolve(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	source := splitLines(string(data))

	var out []string
	index := 0
	for _, line := range splitLines(body) {
		switch {
		case strings.HasPrefix(line, "@@"):
			continue
		case strings.HasPrefix(line, "+"):
			out = append(out, line[1:])
		case strings.HasPrefix(line, "-"):
			index++
		default:
			if index < len(source) {
				out = append(out, source[index])
			}
			index++
		}
	}
	if index < len(source) {
		out = append(out, source[index:]...)
	}

	content := strings.Join(out, "\n") + "\n"
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
