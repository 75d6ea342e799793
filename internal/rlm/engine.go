// Package rlm drives the generator and tool-compiler model endpoints and
// parses their plain-text protocol into structured outputs.
package rlm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rantslabs/rants/internal/api"
	"github.com/rantslabs/rants/internal/config"
	"github.com/rantslabs/rants/internal/transcript"
	"github.com/rantslabs/rants/internal/upstream"
)

// intentMarker separates user-facing text from the free-text tool request in
// generator output.
const intentMarker = "TOOL_INTENT:"

const systemPrompt = "You are a generator model for the RANTS gateway. " +
	"Respond with user-facing text only. If a tool should be used, append a line: " +
	"TOOL_INTENT: <plain English>. Never output JSON or code for tools."

// Output is one parsed generator turn.
type Output struct {
	Text       string
	ToolIntent *string
}

// ClientFactory builds the transport for one endpoint. Tests inject stub
// clients here.
type ClientFactory func(endpoint *config.ModelEndpoint) upstream.Client

// Engine owns the model-side protocol: transcript initialization, endpoint
// selection, generation, and tool compilation.
type Engine struct {
	models     config.ModelsConfig
	resilience config.ResilienceConfig
	clients    ClientFactory
}

// NewEngine builds an engine. A nil factory uses real HTTP clients bounded
// by the resilience settings.
func NewEngine(cfg *config.Config, factory ClientFactory) *Engine {
	e := &Engine{
		models:     cfg.Models,
		resilience: cfg.Resilience,
		clients:    factory,
	}
	if e.clients == nil {
		resilience := cfg.Resilience
		e.clients = func(endpoint *config.ModelEndpoint) upstream.Client {
			return upstream.NewHTTPClient(upstream.Config{
				BaseURL:    endpoint.BaseURL,
				APIKey:     endpoint.APIKey,
				Timeout:    time.Duration(resilience.RequestTimeoutSeconds * float64(time.Second)),
				MaxRetries: resilience.MaxRetries,
				Backoff:    time.Duration(resilience.BackoffSeconds * float64(time.Second)),
			})
		}
	}
	return e
}

// InitializeTranscript starts a canonical transcript with the digest of the
// tool schemas in effect.
func (e *Engine) InitializeTranscript(system *string, user string, schemas []map[string]any) *transcript.Transcript {
	return &transcript.Transcript{
		System:           system,
		User:             user,
		ToolSchemaDigest: transcript.SchemaDigest(schemas),
		Steps:            []transcript.Step{},
	}
}

// ParseOutput splits generator text on the intent marker: everything before
// the first occurrence is user-facing text (trailing whitespace stripped),
// everything after the last occurrence is the intent. An empty intent is
// treated as absent.
func ParseOutput(text string) Output {
	if !strings.Contains(text, intentMarker) {
		return Output{Text: text}
	}
	parts := strings.Split(text, intentMarker)
	out := Output{Text: strings.TrimRight(parts[0], " \t\r\n")}
	intent := strings.TrimSpace(parts[len(parts)-1])
	if intent != "" {
		out.ToolIntent = &intent
	}
	return out
}

// selectEndpoint routes generation: the vision endpoint when the transcript
// carries vision signals, else a code interpreter advertising "code", else
// the generator.
func (e *Engine) selectEndpoint(t *transcript.Transcript) *config.ModelEndpoint {
	if e.models.Vision != nil && hasVisionSignal(t) {
		return e.models.Vision
	}
	if e.models.CodeInterpreter.HasCapability("code") {
		return e.models.CodeInterpreter
	}
	return e.models.Generator
}

func hasVisionSignal(t *transcript.Transcript) bool {
	if containsVisionWord(t.User) {
		return true
	}
	for _, step := range t.Steps {
		if containsVisionWord(step.GeneratorOutput) {
			return true
		}
	}
	return false
}

func containsVisionWord(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "image") || strings.Contains(lower, "img")
}

// Generate calls the selected endpoint with the serialized transcript and
// parses the output text.
func (e *Engine) Generate(ctx context.Context, t *transcript.Transcript) (Output, error) {
	endpoint := e.selectEndpoint(t)
	input, err := json.Marshal(map[string]any{
		"system":     systemPrompt,
		"transcript": t,
	})
	if err != nil {
		return Output{}, fmt.Errorf("encode transcript: %w", err)
	}
	payload := map[string]any{
		"model": endpoint.Model,
		"input": string(input),
	}
	for key, value := range endpoint.Parameters {
		payload[key] = value
	}

	resp, err := e.clients(endpoint).PostJSON(ctx, "/responses", payload)
	if err != nil {
		return Output{}, err
	}
	return ParseOutput(api.ExtractOutputText(resp.Data)), nil
}

// AppendStep records one loop iteration on the transcript.
func (e *Engine) AppendStep(t *transcript.Transcript, out Output, calls []transcript.ToolCall, results []transcript.ToolResult) {
	if calls == nil {
		calls = []transcript.ToolCall{}
	}
	if results == nil {
		results = []transcript.ToolResult{}
	}
	t.AppendStep(transcript.Step{
		GeneratorOutput: out.Text,
		ToolIntent:      out.ToolIntent,
		ToolCalls:       calls,
		ToolResults:     results,
	})
}
