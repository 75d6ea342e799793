package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(baseURL string, maxRetries int) *HTTPClient {
	return NewHTTPClient(Config{
		BaseURL:    baseURL,
		MaxRetries: maxRetries,
		Timeout:    5 * time.Second,
		Backoff:    time.Millisecond,
	})
}

func TestPostJSONSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing content type")
		}
		if r.Header.Get("Authorization") != "Bearer sekrit" {
			t.Errorf("missing bearer key")
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{BaseURL: srv.URL, APIKey: "sekrit"})
	resp, err := client.PostJSON(context.Background(), "/responses", map[string]any{"model": "m"})
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if resp.Status != 200 || resp.Data["ok"] != true {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPostJSONRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, `{"error":{"message":"flaky"}}`, http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2)
	if _, err := client.PostJSON(context.Background(), "/responses", nil); err != nil {
		t.Fatalf("expected success after two transient failures, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestPostJSONSurfacesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Upstream exploded"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2)
	_, err := client.PostJSON(context.Background(), "/responses", nil)
	upstreamErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if upstreamErr.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", upstreamErr.Status)
	}
	if !strings.Contains(upstreamErr.Error(), "Upstream exploded") {
		t.Fatalf("message not extracted: %q", upstreamErr.Error())
	}
	if !strings.Contains(upstreamErr.Error(), "status 500") {
		t.Fatalf("status missing: %q", upstreamErr.Error())
	}
}

func TestErrorDetailFallbacks(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error":{"message":"inner"}}`, "inner"},
		{`{"message":"outer"}`, "outer"},
		{`plain text`, "plain text"},
	}
	for _, tc := range cases {
		err := &Error{Status: 500, Body: []byte(tc.body)}
		if got := err.Detail(); got != tc.want {
			t.Fatalf("body %q: got %q want %q", tc.body, got, tc.want)
		}
	}
}

func TestStreamJSONParsesSSE(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("event: noise\n"))
		w.Write([]byte("data: {\"n\":1}\n\n"))
		w.Write([]byte("data: {\"n\":2}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
		w.Write([]byte("data: {\"n\":3}\n\n"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 0)
	stream, err := client.StreamJSON(context.Background(), "/responses", nil)
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	events, err := Collect(stream)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events before [DONE], got %d", len(events))
	}
	if events[0]["n"] != float64(1) || events[1]["n"] != float64(2) {
		t.Fatalf("unexpected events: %v", events)
	}
}
