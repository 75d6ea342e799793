package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rantslabs/rants/internal/transcript"
)

type memorySink struct {
	entries []string
}

func (m *memorySink) StoreAuditEntry(_ context.Context, entryJSON string) error {
	m.entries = append(m.entries, entryJSON)
	return nil
}

func TestLogToolActivitySkipsEmpty(t *testing.T) {
	sink := &memorySink{}
	logger := NewLogger(sink, nil)

	if err := logger.LogToolActivity(context.Background(), "acme", "resp_1", nil, nil); err != nil {
		t.Fatalf("LogToolActivity: %v", err)
	}
	if len(sink.entries) != 0 {
		t.Errorf("empty iteration should not be audited: %v", sink.entries)
	}
}

func TestLogToolActivityRecords(t *testing.T) {
	sink := &memorySink{}
	logger := NewLogger(sink, nil)

	calls := []transcript.ToolCall{{Tool: "ls", Parameters: map[string]any{}}}
	results := []transcript.ToolResult{{Tool: "ls", OK: true, Output: map[string]any{"entries": []any{}}}}
	if err := logger.LogToolActivity(context.Background(), "acme", "resp_1", calls, results); err != nil {
		t.Fatalf("LogToolActivity: %v", err)
	}
	if len(sink.entries) != 1 {
		t.Fatalf("entries = %d", len(sink.entries))
	}

	var entry Entry
	if err := json.Unmarshal([]byte(sink.entries[0]), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.TenantID != "acme" || entry.ResponseID != "resp_1" {
		t.Errorf("entry = %+v", entry)
	}
	if len(entry.ToolCalls) != 1 || entry.ToolCalls[0].Tool != "ls" {
		t.Errorf("tool calls = %+v", entry.ToolCalls)
	}
	if entry.Timestamp == 0 {
		t.Error("timestamp missing")
	}
}
