package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/rantslabs/rants/internal/config"
)

func enabledConfig() config.AuthConfig {
	return config.AuthConfig{
		Enabled: true,
		APIKeys: []config.APIKey{
			{Key: "k-1", TenantID: "acme", Name: "acme key"},
		},
	}
}

func TestAuthenticateDisabled(t *testing.T) {
	a := NewAuthenticator(config.AuthConfig{Enabled: false})
	req := httptest.NewRequest("POST", "/v1/responses", nil)

	ctx, err := a.Authenticate(req)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if ctx.TenantID != "default" || ctx.Name != "anonymous" {
		t.Errorf("ctx = %+v", ctx)
	}
}

func TestAuthenticateBearer(t *testing.T) {
	a := NewAuthenticator(enabledConfig())
	req := httptest.NewRequest("POST", "/v1/responses", nil)
	req.Header.Set("Authorization", "Bearer k-1")

	ctx, err := a.Authenticate(req)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if ctx.TenantID != "acme" || ctx.APIKey != "k-1" {
		t.Errorf("ctx = %+v", ctx)
	}
}

func TestAuthenticateXAPIKey(t *testing.T) {
	a := NewAuthenticator(enabledConfig())
	req := httptest.NewRequest("POST", "/v1/responses", nil)
	req.Header.Set("x-api-key", "k-1")

	ctx, err := a.Authenticate(req)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if ctx.TenantID != "acme" {
		t.Errorf("ctx = %+v", ctx)
	}
}

func TestAuthenticateMissingKey(t *testing.T) {
	a := NewAuthenticator(enabledConfig())
	req := httptest.NewRequest("POST", "/v1/responses", nil)

	if _, err := a.Authenticate(req); err != ErrMissingKey {
		t.Errorf("err = %v", err)
	}
}

func TestAuthenticateInvalidKey(t *testing.T) {
	a := NewAuthenticator(enabledConfig())
	req := httptest.NewRequest("POST", "/v1/responses", nil)
	req.Header.Set("Authorization", "Bearer nope")

	if _, err := a.Authenticate(req); err != ErrInvalidKey {
		t.Errorf("err = %v", err)
	}
}
