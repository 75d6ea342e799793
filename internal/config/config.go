// Package config loads the gateway configuration from YAML with
// RANTS_-prefixed environment overrides.
package config

import "fmt"

// ServerConfig binds the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LimitsConfig bounds the orchestrator loop and the tool sandbox.
type LimitsConfig struct {
	MaxToolIterations   int    `yaml:"max_tool_iterations"`
	MaxWallclockSeconds int    `yaml:"max_wallclock_seconds"`
	MaxDepth            int    `yaml:"max_depth"`
	WorkspaceRoot       string `yaml:"workspace_root"`
	ToolOutputMaxBytes  int    `yaml:"tool_output_max_bytes"`
	WebfetchMaxBytes    int    `yaml:"webfetch_max_bytes"`
}

// APIKey maps a bearer key to a tenant.
type APIKey struct {
	Key      string `yaml:"key"`
	TenantID string `yaml:"tenant_id"`
	Name     string `yaml:"name"`
}

// AuthConfig controls bearer-key authentication.
type AuthConfig struct {
	Enabled bool     `yaml:"enabled"`
	APIKeys []APIKey `yaml:"api_keys"`
}

// RateLimitConfig controls the per-tenant token buckets.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	Burst             int  `yaml:"burst"`
}

// ResilienceConfig bounds upstream calls.
type ResilienceConfig struct {
	RequestTimeoutSeconds float64 `yaml:"request_timeout_seconds"`
	MaxRetries            int     `yaml:"max_retries"`
	BackoffSeconds        float64 `yaml:"backoff_seconds"`
}

// RLMProfile describes one logical model surfaced in /v1/models.
type RLMProfile struct {
	Name          string `yaml:"name"`
	Environment   string `yaml:"environment"`
	MaxIterations int    `yaml:"max_iterations"`
	MaxDepth      int    `yaml:"max_depth"`
}

// RLMConfig is the catalog of logical models.
type RLMConfig struct {
	RantsOne RLMProfile `yaml:"rants_one"`
}

// ListModels returns the configured catalog entries.
func (c RLMConfig) ListModels() []RLMProfile {
	return []RLMProfile{c.RantsOne}
}

// ModelEndpoint describes one upstream OpenAI-compatible endpoint.
type ModelEndpoint struct {
	Provider     string         `yaml:"provider"`
	BaseURL      string         `yaml:"base_url"`
	Model        string         `yaml:"model"`
	APIKey       string         `yaml:"api_key"`
	Capabilities []string       `yaml:"capabilities"`
	Parameters   map[string]any `yaml:"parameters"`
}

// HasCapability reports whether the endpoint advertises the capability.
func (e *ModelEndpoint) HasCapability(name string) bool {
	if e == nil {
		return false
	}
	for _, capability := range e.Capabilities {
		if capability == name {
			return true
		}
	}
	return false
}

// ModelsConfig wires the generator/compiler pair plus optional specialists.
type ModelsConfig struct {
	Generator       *ModelEndpoint `yaml:"generator"`
	ToolCompiler    *ModelEndpoint `yaml:"tool_compiler"`
	CodeInterpreter *ModelEndpoint `yaml:"code_interpreter"`
	Vision          *ModelEndpoint `yaml:"vision"`
}

// StateConfig locates the SQLite database.
type StateConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Config is the root configuration document.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Limits     LimitsConfig     `yaml:"limits"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimits RateLimitConfig  `yaml:"rate_limits"`
	Resilience ResilienceConfig `yaml:"resilience"`
	RLM        RLMConfig        `yaml:"rlm"`
	Models     ModelsConfig     `yaml:"models"`
	State      StateConfig      `yaml:"state"`
}

// Default returns the built-in configuration before file and env overlays.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8000},
		Limits: LimitsConfig{
			MaxToolIterations:   6,
			MaxWallclockSeconds: 120,
			MaxDepth:            2,
			WorkspaceRoot:       "/work",
			ToolOutputMaxBytes:  16384,
			WebfetchMaxBytes:    5 * 1024 * 1024,
		},
		RateLimits: RateLimitConfig{Enabled: false, RequestsPerMinute: 60, Burst: 10},
		Resilience: ResilienceConfig{RequestTimeoutSeconds: 120, MaxRetries: 0, BackoffSeconds: 0.5},
		RLM: RLMConfig{RantsOne: RLMProfile{
			Name:          "rants-one",
			Environment:   "docker",
			MaxIterations: 10,
			MaxDepth:      2,
		}},
		State: StateConfig{SQLitePath: "/work/rants.sqlite"},
	}
}

// Validate checks the invariants the rest of the gateway relies on.
func (c *Config) Validate() error {
	if c.Models.Generator == nil {
		return fmt.Errorf("models.generator is required")
	}
	if c.Models.ToolCompiler == nil {
		return fmt.Errorf("models.tool_compiler is required")
	}
	if c.Limits.MaxToolIterations <= 0 {
		return fmt.Errorf("limits.max_tool_iterations must be positive")
	}
	if c.Limits.WorkspaceRoot == "" {
		return fmt.Errorf("limits.workspace_root is required")
	}
	return nil
}
