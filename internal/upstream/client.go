// Package upstream implements the HTTP client contract for remote
// OpenAI-compatible model endpoints: JSON POSTs with retry/backoff and
// SSE-framed streaming reads.
package upstream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rantslabs/rants/internal/backoff"
)

// Response is a decoded upstream reply.
type Response struct {
	Status int
	Data   map[string]any
	Header http.Header
}

// Client is the transport used for all upstream model calls. It is an
// interface so tests can inject a stub instead of patching globals.
type Client interface {
	PostJSON(ctx context.Context, path string, payload map[string]any) (*Response, error)
	StreamJSON(ctx context.Context, path string, payload map[string]any) (*Stream, error)
}

// Config bounds an HTTP client instance.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	maxRetries int
	policy     backoff.Policy
	httpc      *http.Client
	streamc    *http.Client
}

// NewHTTPClient builds a client for one endpoint base URL.
func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	wait := cfg.Backoff
	if wait <= 0 {
		wait = 500 * time.Millisecond
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		policy:     backoff.Policy{Initial: wait, Factor: 2},
		httpc:      &http.Client{Timeout: timeout},
		// Streams are bounded by the request context, not a client timeout.
		streamc: &http.Client{},
	}
}

// PostJSON posts a JSON payload and decodes the JSON response, retrying on
// transport failures and non-2xx statuses with exponential backoff.
func (c *HTTPClient) PostJSON(ctx context.Context, path string, payload map[string]any) (*Response, error) {
	return backoff.Retry(ctx, c.policy, c.maxRetries, func() (*Response, error) {
		return c.postOnce(ctx, path, payload)
	})
}

func (c *HTTPClient) postOnce(ctx context.Context, path string, payload map[string]any) (*Response, error) {
	resp, err := c.do(ctx, c.httpc, path, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Body: body}
	}
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &Error{Err: fmt.Errorf("decode response: %w", err)}
	}
	return &Response{Status: resp.StatusCode, Data: data, Header: resp.Header}, nil
}

// StreamJSON posts a JSON payload and returns a Stream over the SSE events
// in the response body. The initial connection is retried with backoff.
func (c *HTTPClient) StreamJSON(ctx context.Context, path string, payload map[string]any) (*Stream, error) {
	return backoff.Retry(ctx, c.policy, c.maxRetries, func() (*Stream, error) {
		return c.streamOnce(ctx, path, payload)
	})
}

func (c *HTTPClient) streamOnce(ctx context.Context, path string, payload map[string]any) (*Stream, error) {
	resp, err := c.do(ctx, c.streamc, path, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &Error{Status: resp.StatusCode, Body: body}
	}
	return &Stream{body: resp.Body, scanner: bufio.NewScanner(resp.Body)}, nil
}

func (c *HTTPClient) do(ctx context.Context, httpc *http.Client, path string, payload map[string]any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("encode payload: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, &Error{Err: err}
	}
	return resp, nil
}

// Stream iterates decoded JSON objects from an SSE body. Only lines starting
// with "data:" are consumed; the literal [DONE] terminates the stream.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

// Next returns the next decoded event, or (nil, io.EOF) when the stream has
// ended either by [DONE] or body exhaustion.
func (s *Stream) Next() (map[string]any, error) {
	if s.done {
		return nil, io.EOF
	}
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			s.done = true
			return nil, io.EOF
		}
		var event map[string]any
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return nil, fmt.Errorf("decode stream event: %w", err)
		}
		return event, nil
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Close releases the underlying response body.
func (s *Stream) Close() error {
	s.done = true
	return s.body.Close()
}

// Collect drains a stream into a slice, closing it afterwards.
func Collect(s *Stream) ([]map[string]any, error) {
	defer s.Close()
	var events []map[string]any
	for {
		event, err := s.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}
