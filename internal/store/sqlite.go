package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rantslabs/rants/internal/transcript"
)

// SQLiteStore is the production Store backed by a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates parents for) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc/sqlite serializes writers; a single connection avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

// Initialize creates the schema if it does not exist.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			parent_id TEXT,
			depth INTEGER,
			transcript_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS responses (
			response_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			parent_response_id TEXT,
			tenant_id TEXT NOT NULL,
			created_at REAL NOT NULL,
			transcript_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			audit_id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at REAL NOT NULL DEFAULT (strftime('%s','now')),
			entry_json TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	}
	return nil
}

// NewResponseID mints a resp_-prefixed identifier from a random UUID.
func (s *SQLiteStore) NewResponseID() string {
	id := uuid.New()
	return "resp_" + strings.ToLower(hex.EncodeToString(id[:]))
}

// StoreResponse persists a completed response, keyed by id and tenant.
func (s *SQLiteStore) StoreResponse(ctx context.Context, responseID, sessionID, parentResponseID, tenantID string, createdAt float64, t *transcript.Transcript) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO responses(response_id, session_id, parent_response_id, tenant_id, created_at, transcript_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		responseID, sessionID, nullable(parentResponseID), tenantID, createdAt, string(payload),
	)
	if err != nil {
		return fmt.Errorf("store response: %w", err)
	}
	return nil
}

// LoadTranscript returns the transcript for (responseID, tenantID). A row
// owned by a different tenant reads as ErrNotFound.
func (s *SQLiteStore) LoadTranscript(ctx context.Context, responseID, tenantID string) (*transcript.Transcript, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT transcript_json FROM responses WHERE response_id = ? AND tenant_id = ?`,
		responseID, tenantID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	var t transcript.Transcript
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return &t, nil
}

// CreateSession persists a recursive session and returns its generated id.
func (s *SQLiteStore) CreateSession(ctx context.Context, t *transcript.Transcript, depth int, parentID string) (string, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	id := uuid.New()
	sessionID := strings.ToLower(hex.EncodeToString(id[:]))
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions(session_id, parent_id, depth, transcript_json) VALUES (?, ?, ?, ?)`,
		sessionID, nullable(parentID), depth, string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sessionID, nil
}

// StoreAuditEntry appends one serialized audit record.
func (s *SQLiteStore) StoreAuditEntry(ctx context.Context, entryJSON string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log(entry_json) VALUES (?)`, entryJSON,
	)
	if err != nil {
		return fmt.Errorf("store audit entry: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
