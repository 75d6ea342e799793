package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rantslabs/rants/internal/auth"
)

type contextKey string

const authContextKey contextKey = "auth"

// authFromContext returns the authenticated caller, defaulting to the
// anonymous tenant when the middleware did not run.
func authFromContext(ctx context.Context) auth.Context {
	if value, ok := ctx.Value(authContextKey).(auth.Context); ok {
		return value
	}
	return auth.Context{TenantID: "default"}
}

// guard authenticates the request and applies the per-tenant rate limit.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := s.auth.Authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error(), "auth_error", "auth_error")
			return
		}
		if !s.limiter.Allow(authCtx.TenantID) {
			if s.metrics != nil {
				s.metrics.RateLimitRejections.WithLabelValues(authCtx.TenantID).Inc()
			}
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "rate_limit_error", "rate_limit_exceeded")
			return
		}
		ctx := context.WithValue(r.Context(), authContextKey, authCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// instrument records request counts and latencies.
func (s *Server) instrument(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.metrics.HTTPRequestCounter.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(recorder.status)).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// tenantFor resolves the effective tenant. With auth disabled the responses
// surface may override the default tenant with the request's user field.
func (s *Server) tenantFor(r *http.Request, bodyUser string) string {
	authCtx := authFromContext(r.Context())
	if !s.cfg.Auth.Enabled && bodyUser != "" {
		return bodyUser
	}
	return authCtx.TenantID
}
