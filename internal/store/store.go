// Package store persists responses, recursive sessions, and audit entries.
package store

import (
	"context"
	"errors"

	"github.com/rantslabs/rants/internal/transcript"
)

// ErrNotFound is returned when a response does not exist for the requesting
// tenant. Cross-tenant lookups are indistinguishable from missing rows.
var ErrNotFound = errors.New("response not found")

// Store is the persistence contract used by the orchestrator and server.
type Store interface {
	// Initialize creates the schema if it does not exist.
	Initialize(ctx context.Context) error

	// NewResponseID mints a fresh response identifier.
	NewResponseID() string

	// StoreResponse persists a completed response's transcript.
	StoreResponse(ctx context.Context, responseID, sessionID, parentResponseID, tenantID string, createdAt float64, t *transcript.Transcript) error

	// LoadTranscript returns the transcript stored for (responseID, tenantID),
	// or ErrNotFound.
	LoadTranscript(ctx context.Context, responseID, tenantID string) (*transcript.Transcript, error)

	// CreateSession persists a recursive session and returns its id.
	CreateSession(ctx context.Context, t *transcript.Transcript, depth int, parentID string) (string, error)

	// StoreAuditEntry appends a serialized audit record.
	StoreAuditEntry(ctx context.Context, entryJSON string) error

	Close() error
}
