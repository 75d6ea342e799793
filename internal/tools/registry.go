// Package tools implements the gateway's tool registry and executors.
// The registry holds data (name, description, schema, executor function);
// runtime dependencies reach executors through a Context value rather than
// closures captured at build time.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ExecutorFunc runs one tool call. Parameters arrive as decoded JSON; the
// result mapping is folded into the transcript by the orchestrator.
type ExecutorFunc func(ctx context.Context, tc *Context, params map[string]any) (map[string]any, error)

// Definition describes one registered tool.
type Definition struct {
	Name        string
	Description string
	Schema      map[string]any
	Execute     ExecutorFunc

	compiled *jsonschema.Schema
}

// ValidateParams checks the parameters against the tool's JSON Schema.
// Tools whose schema failed to compile skip validation.
func (d *Definition) ValidateParams(params map[string]any) error {
	if d.compiled == nil {
		return nil
	}
	if params == nil {
		params = map[string]any{}
	}
	if err := d.compiled.Validate(anyValue(params)); err != nil {
		return fmt.Errorf("invalid parameters for %s: %w", d.Name, err)
	}
	return nil
}

// anyValue round-trips params through JSON so validation sees canonical
// JSON types regardless of how the map was built.
func anyValue(params map[string]any) any {
	data, err := json.Marshal(params)
	if err != nil {
		return params
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return params
	}
	return value
}

// Context carries the runtime configuration executors need. It is built per
// request by the orchestrator; the registry itself stays read-only after
// startup.
type Context struct {
	WorkspaceRoot      string
	ToolOutputMaxBytes int
	WebfetchMaxBytes   int
	HTTPClient         *http.Client
}

func (c *Context) resolver() Resolver {
	return Resolver{Root: c.WorkspaceRoot}
}

func (c *Context) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Registry maps tool names to definitions, preserving insertion order for
// schema listings.
type Registry struct {
	order []string
	defs  map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a tool. Re-registering a name replaces the definition but
// keeps its original position.
func (r *Registry) Register(def Definition) {
	d := def
	d.compiled = compileSchema(def.Name, def.Schema)
	if _, exists := r.defs[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.defs[def.Name] = &d
}

// Get returns a definition by name.
func (r *Registry) Get(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Schemas returns the tool schemas in insertion order.
func (r *Registry) Schemas() []map[string]any {
	schemas := make([]map[string]any, 0, len(r.order))
	for _, name := range r.order {
		def := r.defs[name]
		schemas = append(schemas, map[string]any{
			"name":        def.Name,
			"description": def.Description,
			"schema":      def.Schema,
		})
	}
	return schemas
}

// Names returns the registered tool names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func compileSchema(name string, schema map[string]any) *jsonschema.Schema {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	compiler := jsonschema.NewCompiler()
	url := name + ".schema.json"
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil
	}
	return compiled
}
