// Package transcript defines the canonical conversation record shared by the
// RLM engine, the orchestrator, and the persistent store.
package transcript

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// ToolCall is one structured call produced by the tool compiler.
type ToolCall struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

// ToolResult is the outcome of executing one tool call. Results align by
// index with the step's tool calls when execution ran.
type ToolResult struct {
	Tool   string         `json:"tool"`
	OK     bool           `json:"ok"`
	Output map[string]any `json:"output"`
}

// Step records one iteration of the orchestrator loop: the generator's text,
// the optional free-text tool intent, and the compiled calls with their
// results.
type Step struct {
	GeneratorOutput string       `json:"generator_output"`
	ToolIntent      *string      `json:"tool_intent"`
	ToolCalls       []ToolCall   `json:"tool_calls"`
	ToolResults     []ToolResult `json:"tool_results"`
}

// Transcript is the canonical record of a single request's conversation.
// It is append-only within one orchestrator run; earlier steps are never
// mutated.
type Transcript struct {
	System           *string `json:"system"`
	User             string  `json:"user"`
	ToolSchemaDigest string  `json:"tool_schema_digest"`
	Steps            []Step  `json:"steps"`
}

// AppendStep appends a step to the transcript.
func (t *Transcript) AppendStep(step Step) {
	t.Steps = append(t.Steps, step)
}

// Text returns the concatenation, in order, of every step's generator output.
func (t *Transcript) Text() string {
	var out string
	for _, step := range t.Steps {
		out += step.GeneratorOutput
	}
	return out
}

// SchemaDigest computes the hex SHA-256 digest of the tool schemas, sorted
// lexicographically by name. Only the (name, schema) pairs participate, so
// reordering tools yields the same digest while renaming one changes it.
func SchemaDigest(schemas []map[string]any) string {
	type pair struct {
		Name   string         `json:"name"`
		Schema map[string]any `json:"schema"`
	}
	pairs := make([]pair, 0, len(schemas))
	for _, schema := range schemas {
		name, _ := schema["name"].(string)
		body, _ := schema["schema"].(map[string]any)
		pairs = append(pairs, pair{Name: name, Schema: body})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })

	// encoding/json emits map keys in sorted order, so this is canonical.
	serialized, err := json.Marshal(pairs)
	if err != nil {
		serialized = nil
	}
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])
}
