package rlm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rantslabs/rants/internal/api"
	"github.com/rantslabs/rants/internal/transcript"
)

const (
	functionCallStart = "<start_function_call>"
	functionCallEnd   = "<end_function_call>"
	callPrefix        = "call:"
)

// ErrCompilerCapability is returned when the configured tool compiler does
// not advertise the tool_compilation capability.
var ErrCompilerCapability = errors.New("tool compiler missing tool_compilation capability")

// CompileTools sends the intent plus transcript and schemas to the tool
// compiler endpoint and parses its reply into structured calls.
func (e *Engine) CompileTools(ctx context.Context, t *transcript.Transcript, schemas []map[string]any, intent string) ([]transcript.ToolCall, error) {
	compiler := e.models.ToolCompiler
	if !compiler.HasCapability("tool_compilation") {
		return nil, ErrCompilerCapability
	}

	input, err := json.Marshal(map[string]any{
		"tool_schemas": schemas,
		"transcript":   t,
		"tool_intent":  intent,
	})
	if err != nil {
		return nil, fmt.Errorf("encode compiler input: %w", err)
	}
	payload := map[string]any{
		"model": compiler.Model,
		"input": string(input),
	}
	for key, value := range compiler.Parameters {
		payload[key] = value
	}

	resp, err := e.clients(compiler).PostJSON(ctx, "/responses", payload)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(api.ExtractOutputText(resp.Data))
	if text == "" {
		return nil, fmt.Errorf("tool compiler returned empty tool_calls payload")
	}
	calls, ok := ParseToolCalls(text)
	if !ok {
		return nil, fmt.Errorf("tool compiler returned unparseable tool_calls payload")
	}
	return calls, nil
}

// ParseToolCalls parses compiler output text. A JSON object carrying a
// tool_calls array wins; otherwise each line is scanned for sentinel-wrapped
// calls of the form <start_function_call>name{...}<end_function_call>.
func ParseToolCalls(text string) ([]transcript.ToolCall, bool) {
	text = strings.TrimSpace(text)

	var compiled map[string]any
	if err := json.Unmarshal([]byte(text), &compiled); err == nil {
		if rawCalls, ok := compiled["tool_calls"].([]any); ok {
			calls := []transcript.ToolCall{}
			for _, raw := range rawCalls {
				entry, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				name, _ := entry["tool"].(string)
				parameters, _ := entry["parameters"].(map[string]any)
				calls = append(calls, transcript.ToolCall{Tool: name, Parameters: parameters})
			}
			return calls, true
		}
	}

	var calls []transcript.ToolCall
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, functionCallStart) || !strings.HasSuffix(line, functionCallEnd) {
			continue
		}
		inner := strings.TrimSuffix(strings.TrimPrefix(line, functionCallStart), functionCallEnd)
		inner = strings.TrimPrefix(inner, callPrefix)
		brace := strings.Index(inner, "{")
		if brace < 0 {
			continue
		}
		name := strings.TrimSpace(inner[:brace])
		payload := inner[brace:]
		if !strings.HasSuffix(payload, "}") || name == "" {
			continue
		}
		var parameters map[string]any
		if err := json.Unmarshal([]byte(payload), &parameters); err != nil {
			continue
		}
		calls = append(calls, transcript.ToolCall{Tool: name, Parameters: parameters})
	}
	if len(calls) > 0 {
		return calls, true
	}
	return nil, false
}
