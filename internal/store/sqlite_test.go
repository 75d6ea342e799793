package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rantslabs/rants/internal/transcript"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "rants.sqlite"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

func sampleTranscript() *transcript.Transcript {
	intent := "list files"
	return &transcript.Transcript{
		User:             "hello",
		ToolSchemaDigest: "digest",
		Steps: []transcript.Step{{
			GeneratorOutput: "hi",
			ToolIntent:      &intent,
			ToolCalls:       []transcript.ToolCall{{Tool: "ls", Parameters: map[string]any{}}},
			ToolResults:     []transcript.ToolResult{{Tool: "ls", OK: true, Output: map[string]any{}}},
		}},
	}
}

func TestNewResponseIDFormat(t *testing.T) {
	s := newTestStore(t)
	id := s.NewResponseID()
	if !strings.HasPrefix(id, "resp_") {
		t.Errorf("id = %q", id)
	}
	if len(id) != len("resp_")+32 {
		t.Errorf("id length = %d", len(id))
	}
	if id == s.NewResponseID() {
		t.Error("ids must be unique")
	}
}

func TestStoreAndLoadTranscript(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := s.NewResponseID()

	if err := s.StoreResponse(ctx, id, "", "", "acme", 1700000000.5, sampleTranscript()); err != nil {
		t.Fatalf("StoreResponse: %v", err)
	}
	got, err := s.LoadTranscript(ctx, id, "acme")
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if got.User != "hello" || got.ToolSchemaDigest != "digest" {
		t.Errorf("transcript = %+v", got)
	}
	if len(got.Steps) != 1 || got.Steps[0].ToolIntent == nil || *got.Steps[0].ToolIntent != "list files" {
		t.Errorf("steps = %+v", got.Steps)
	}
}

func TestLoadTranscriptWrongTenant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := s.NewResponseID()

	if err := s.StoreResponse(ctx, id, "", "", "acme", 1, sampleTranscript()); err != nil {
		t.Fatalf("StoreResponse: %v", err)
	}
	_, err := s.LoadTranscript(ctx, id, "other")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant load should be ErrNotFound, got %v", err)
	}
}

func TestLoadTranscriptMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadTranscript(context.Background(), "resp_missing", "acme")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestCreateSession(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateSession(context.Background(), sampleTranscript(), 1, "parent")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if len(id) != 32 {
		t.Errorf("session id = %q", id)
	}
}

func TestStoreAuditEntry(t *testing.T) {
	s := newTestStore(t)
	if err := s.StoreAuditEntry(context.Background(), `{"tenant_id":"acme"}`); err != nil {
		t.Fatalf("StoreAuditEntry: %v", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM audit_log`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d", count)
	}
}
