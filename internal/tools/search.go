package tools

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

func execGlob(_ context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	pattern := stringParam(params, "pattern")
	if pattern == "" {
		return nil, fmt.Errorf("missing pattern")
	}
	base := stringParam(params, "path")
	if base == "" {
		base = "."
	}
	root, err := tc.resolver().Resolve(base)
	if err != nil {
		return nil, err
	}

	matches := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if matchGlob(pattern, rel) {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return map[string]any{"matches": matches}, nil
}

// matchGlob matches slash-separated paths against a pattern where "**"
// spans any number of segments and single segments use path.Match rules.
func matchGlob(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pattern, name []string) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	if pattern[0] == "**" {
		for skip := 0; skip <= len(name); skip++ {
			if matchSegments(pattern[1:], name[skip:]) {
				return true
			}
		}
		return false
	}
	if len(name) == 0 {
		return false
	}
	ok, err := filepath.Match(pattern[0], name[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], name[1:])
}

func execGrep(_ context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	pattern := stringParam(params, "pattern")
	if pattern == "" {
		return nil, fmt.Errorf("missing pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	base := stringParam(params, "path")
	if base == "" {
		base = "."
	}
	include := stringParam(params, "include")
	root, err := tc.resolver().Resolve(base)
	if err != nil {
		return nil, err
	}

	results := []map[string]any{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if include != "" {
			ok, err := filepath.Match(include, d.Name())
			if err != nil || !ok {
				return nil
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		content := string(data)
		if !utf8.ValidString(content) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for i, line := range splitLines(content) {
			if re.MatchString(line) {
				results = append(results, map[string]any{
					"file": rel,
					"line": i + 1,
					"text": line,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return map[string]any{"results": results}, nil
}
