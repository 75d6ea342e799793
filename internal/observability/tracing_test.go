package observability

import (
	"context"
	"testing"
)

func TestGetTraceIDWithoutSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace id, got %q", id)
	}
	if id := GetSpanID(context.Background()); id != "" {
		t.Errorf("expected empty span id, got %q", id)
	}
}

func TestStartSpanNoop(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test")
	defer span.End()
	if ctx == nil {
		t.Fatal("context missing")
	}
}
