package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error represents a failed upstream call: either a non-2xx HTTP response
// (Status > 0, Body holds the raw payload) or a transport failure (Err set).
type Error struct {
	Status int
	Body   []byte
	Err    error
}

// Error formats the message the HTTP surface returns verbatim in 502 bodies.
func (e *Error) Error() string {
	if e.Status > 0 {
		if detail := e.Detail(); detail != "" {
			return fmt.Sprintf("Upstream error (status %d): %s", e.Status, detail)
		}
		return fmt.Sprintf("Upstream error (status %d)", e.Status)
	}
	return fmt.Sprintf("Upstream error: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Detail extracts the most specific message from the response body:
// error.message, then message, then the raw body text.
func (e *Error) Detail() string {
	var data map[string]any
	if err := json.Unmarshal(e.Body, &data); err != nil {
		return string(e.Body)
	}
	if errObj, ok := data["error"].(map[string]any); ok {
		if message, ok := errObj["message"].(string); ok {
			return message
		}
	}
	if message, ok := data["message"].(string); ok {
		return message
	}
	return string(e.Body)
}

// AsError reports whether err is (or wraps) an upstream error.
func AsError(err error) (*Error, bool) {
	var upstreamErr *Error
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}
