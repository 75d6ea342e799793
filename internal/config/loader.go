package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override config keys.
// RANTS_SERVER__PORT=9000 overrides server.port.
const EnvPrefix = "RANTS_"

const envDelimiter = "__"

// Load reads the YAML file at path (missing file falls back to defaults),
// applies RANTS_ environment overrides, and decodes strictly.
func Load(path string) (*Config, error) {
	raw := map[string]any{}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			raw, err = parseRaw(data)
			if err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(raw, os.Environ())

	cfg, err := decodeRaw(raw)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseRaw(data []byte) (map[string]any, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		if err == io.EOF {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// applyEnvOverrides sets RANTS_-prefixed variables into the raw map.
// Double underscores delimit nesting; values are parsed as YAML scalars so
// ints and bools survive the round trip.
func applyEnvOverrides(raw map[string]any, environ []string) {
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		path := strings.Split(strings.TrimPrefix(key, EnvPrefix), envDelimiter)
		for i, part := range path {
			path[i] = strings.ToLower(part)
		}
		if len(path) == 0 || path[0] == "" {
			continue
		}
		setPath(raw, path, parseScalar(value))
	}
}

func setPath(raw map[string]any, path []string, value any) {
	current := raw
	for _, part := range path[:len(path)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
}

func parseScalar(value string) any {
	var parsed any
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return value
	}
	return parsed
}

func decodeRaw(raw map[string]any) (*Config, error) {
	payload, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("serialize config: %w", err)
	}
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(payload))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
