package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rantslabs/rants/internal/rlm"
	"github.com/rantslabs/rants/internal/upstream"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, errType, code string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    errType,
			"code":    code,
		},
	})
}

// writeRunError maps orchestration failures onto HTTP statuses: upstream and
// compiler failures are 502, misconfiguration is 500, cancellation writes
// nothing.
func (s *Server) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if errors.Is(err, rlm.ErrCompilerCapability) {
		writeError(w, http.StatusInternalServerError, err.Error(), "configuration_error", "configuration_error")
		return
	}
	var upstreamErr *upstream.Error
	if errors.As(err, &upstreamErr) {
		writeError(w, http.StatusBadGateway, upstreamErr.Error(), "upstream_error", "upstream_error")
		return
	}
	s.log.ErrorContext(r.Context(), "response turn failed", "error", err)
	writeError(w, http.StatusBadGateway, fmt.Sprintf("Upstream error: %v", err), "upstream_error", "upstream_error")
}
