package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

func execWebfetch(ctx context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	url := stringParam(params, "url")
	if url == "" {
		return nil, fmt.Errorf("missing url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := tc.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch failed with status %d", resp.StatusCode)
	}

	limit := tc.WebfetchMaxBytes
	if limit <= 0 {
		limit = 5 * 1024 * 1024
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return map[string]any{
		"url":     url,
		"content": strings.ToValidUTF8(string(body), "�"),
	}, nil
}
