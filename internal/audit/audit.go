// Package audit records tool activity per response for later review.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rantslabs/rants/internal/observability"
	"github.com/rantslabs/rants/internal/transcript"
)

// Entry is one audit record: all tool calls and results of a single
// orchestrator iteration.
type Entry struct {
	TenantID    string                  `json:"tenant_id"`
	ResponseID  string                  `json:"response_id"`
	ToolCalls   []transcript.ToolCall   `json:"tool_calls"`
	ToolResults []transcript.ToolResult `json:"tool_results"`
	Timestamp   float64                 `json:"timestamp"`
	TraceID     string                  `json:"trace_id,omitempty"`
}

// Sink persists serialized audit entries.
type Sink interface {
	StoreAuditEntry(ctx context.Context, entryJSON string) error
}

// Logger writes audit entries to a sink and mirrors them to slog.
type Logger struct {
	sink Sink
	log  *slog.Logger
}

// NewLogger builds a Logger. A nil slog logger falls back to the default.
func NewLogger(sink Sink, log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{sink: sink, log: log}
}

// LogToolActivity records one iteration's tool calls and results. Iterations
// with no tool activity are skipped.
func (l *Logger) LogToolActivity(ctx context.Context, tenantID, responseID string, calls []transcript.ToolCall, results []transcript.ToolResult) error {
	if len(calls) == 0 && len(results) == 0 {
		return nil
	}
	entry := Entry{
		TenantID:    tenantID,
		ResponseID:  responseID,
		ToolCalls:   calls,
		ToolResults: results,
		Timestamp:   float64(time.Now().UnixNano()) / float64(time.Second),
		TraceID:     observability.GetTraceID(ctx),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}
	if err := l.sink.StoreAuditEntry(ctx, string(payload)); err != nil {
		return fmt.Errorf("store audit entry: %w", err)
	}
	l.log.DebugContext(ctx, "audit entry recorded",
		"tenant_id", tenantID,
		"response_id", responseID,
		"tool_calls", len(calls),
	)
	return nil
}
