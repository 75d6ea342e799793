// Package observability provides Prometheus metrics and OpenTelemetry trace
// helpers for the gateway.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's Prometheus collectors. All metrics register
// with the default registry and surface through the /metrics handler.
type Metrics struct {
	// HTTPRequestCounter counts API requests.
	// Labels: method, path, status_code
	HTTPRequestCounter *prometheus.CounterVec

	// HTTPRequestDuration measures API request latency in seconds.
	// Labels: method, path
	HTTPRequestDuration *prometheus.HistogramVec

	// GeneratorRequestCounter counts upstream model calls.
	// Labels: endpoint (generator|tool_compiler|code_interpreter|vision), status (success|error)
	GeneratorRequestCounter *prometheus.CounterVec

	// ToolExecutionCounter counts tool executions.
	// Labels: tool_name, status (success|error)
	ToolExecutionCounter *prometheus.CounterVec

	// ToolIterations observes orchestrator loop lengths per response.
	ToolIterations prometheus.Histogram

	// RateLimitRejections counts requests rejected by the per-tenant limiter.
	// Labels: tenant_id
	RateLimitRejections *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors. Call once at startup.
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rants_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rants_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
			},
			[]string{"method", "path"},
		),

		GeneratorRequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rants_upstream_requests_total",
				Help: "Total number of upstream model requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		ToolExecutionCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rants_tool_executions_total",
				Help: "Total number of tool executions by tool name and status",
			},
			[]string{"tool_name", "status"},
		),

		ToolIterations: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rants_tool_iterations",
				Help:    "Orchestrator loop iterations per response",
				Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 10},
			},
		),

		RateLimitRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rants_rate_limit_rejections_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"tenant_id"},
		),
	}
}
