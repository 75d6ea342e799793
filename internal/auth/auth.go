// Package auth maps API keys to tenants for request authentication.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rantslabs/rants/internal/config"
)

// Context identifies the authenticated caller.
type Context struct {
	TenantID string
	APIKey   string
	Name     string
}

var (
	// ErrMissingKey is returned when auth is enabled and no key was sent.
	ErrMissingKey = errors.New("missing API key")
	// ErrInvalidKey is returned when the key matches no configured entry.
	ErrInvalidKey = errors.New("invalid API key")
)

// Authenticator resolves requests to tenant contexts.
type Authenticator struct {
	enabled bool
	keys    map[string]config.APIKey
}

// NewAuthenticator builds an authenticator from the auth configuration.
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	keys := make(map[string]config.APIKey, len(cfg.APIKeys))
	for _, entry := range cfg.APIKeys {
		keys[entry.Key] = entry
	}
	return &Authenticator{enabled: cfg.Enabled, keys: keys}
}

// Authenticate resolves the request's API key. With auth disabled every
// request maps to the default tenant.
func (a *Authenticator) Authenticate(r *http.Request) (Context, error) {
	if !a.enabled {
		return Context{TenantID: "default", Name: "anonymous"}, nil
	}
	key := extractAPIKey(r)
	if key == "" {
		return Context{}, ErrMissingKey
	}
	entry, ok := a.keys[key]
	if !ok {
		return Context{}, ErrInvalidKey
	}
	return Context{TenantID: entry.TenantID, APIKey: entry.Key, Name: entry.Name}, nil
}

// extractAPIKey reads Authorization (with optional Bearer prefix) or
// x-api-key.
func extractAPIKey(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		header = r.Header.Get("x-api-key")
	}
	if header == "" {
		return ""
	}
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(header)
}
