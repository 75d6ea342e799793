// Package orchestrator runs the iterative generate/compile/execute loop that
// produces a response from the dual-model protocol.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rantslabs/rants/internal/api"
	"github.com/rantslabs/rants/internal/audit"
	"github.com/rantslabs/rants/internal/config"
	"github.com/rantslabs/rants/internal/observability"
	"github.com/rantslabs/rants/internal/rlm"
	"github.com/rantslabs/rants/internal/store"
	"github.com/rantslabs/rants/internal/tools"
	"github.com/rantslabs/rants/internal/transcript"
)

// Request is one orchestration run. ExecuteTools is false for the
// chat-completions surface, which projects compiled calls back to the caller
// instead of running them.
type Request struct {
	Model              string
	Input              string
	Tools              []map[string]any
	ToolChoice         any
	PreviousResponseID string
	TenantID           string
	ExecuteTools       bool
}

// Orchestrator drives one response turn end to end.
type Orchestrator struct {
	cfg      *config.Config
	store    store.Store
	engine   *rlm.Engine
	registry *tools.Registry
	audit    *audit.Logger
	metrics  *observability.Metrics
	log      *slog.Logger
}

// New wires an orchestrator. Metrics and logger may be nil.
func New(cfg *config.Config, st store.Store, engine *rlm.Engine, registry *tools.Registry, auditLogger *audit.Logger, metrics *observability.Metrics, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		cfg:      cfg,
		store:    st,
		engine:   engine,
		registry: registry,
		audit:    auditLogger,
		metrics:  metrics,
		log:      log,
	}
}

// Run executes the loop and persists the completed transcript. A context
// cancellation abandons the turn without persisting.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*api.ResponseObject, *transcript.Transcript, error) {
	ctx, span := observability.StartSpan(ctx, "orchestrator.run")
	defer span.End()

	toolSchemas := req.Tools
	if len(toolSchemas) == 0 {
		toolSchemas = o.registry.Schemas()
	}
	tr, err := o.buildTranscript(ctx, req, toolSchemas)
	if err != nil {
		return nil, nil, err
	}

	startTime := time.Now()
	start := float64(startTime.UnixNano()) / float64(time.Second)
	message := api.NewOutputMessage(fmt.Sprintf("msg_%d", startTime.Unix()))

	response := api.NewResponseObject(o.store.NewResponseID(), start, req.Model)
	response.Output = []*api.OutputMessage{message}
	response.Tools = toolSchemas
	response.User = req.TenantID
	if req.ToolChoice != nil {
		response.ToolChoice = req.ToolChoice
	}
	if req.PreviousResponseID != "" {
		previous := req.PreviousResponseID
		response.PreviousResponseID = &previous
	}
	if o.cfg.Models.Generator != nil {
		if temperature, ok := o.cfg.Models.Generator.Parameters["temperature"].(float64); ok {
			response.Temperature = &temperature
		}
	}

	wallclock := time.Duration(o.cfg.Limits.MaxWallclockSeconds) * time.Second
	iterations := 0
	for iterations < o.cfg.Limits.MaxToolIterations {
		// Wallclock is a soft ceiling: the running iteration finishes,
		// the next one does not start.
		if len(tr.Steps) > 0 && wallclock > 0 && time.Since(startTime) >= wallclock {
			break
		}

		output, err := o.engine.Generate(ctx, tr)
		o.countUpstream("generator", err == nil)
		if err != nil {
			return nil, nil, err
		}
		message.Content[0].Text += output.Text

		var calls []transcript.ToolCall
		var results []transcript.ToolResult
		if output.ToolIntent != nil {
			calls, err = o.engine.CompileTools(ctx, tr, toolSchemas, *output.ToolIntent)
			o.countUpstream("tool_compiler", err == nil)
			if err != nil {
				return nil, nil, err
			}
			if req.ExecuteTools {
				results, err = o.executeTools(ctx, tr, calls)
				if err != nil {
					return nil, nil, err
				}
			}
		}

		o.engine.AppendStep(tr, output, calls, results)
		if o.audit != nil {
			if err := o.audit.LogToolActivity(ctx, req.TenantID, response.ID, calls, results); err != nil {
				o.log.WarnContext(ctx, "audit write failed", "error", err)
			}
		}

		if output.ToolIntent == nil {
			break
		}
		if !req.ExecuteTools {
			break
		}
		iterations++
	}
	if o.metrics != nil {
		o.metrics.ToolIterations.Observe(float64(iterations))
	}

	if err := ctx.Err(); err != nil {
		// Cancelled mid-turn: nothing is persisted.
		return nil, nil, err
	}

	completedAt := float64(time.Now().UnixNano()) / float64(time.Second)
	response.Status = api.StatusCompleted
	response.CompletedAt = &completedAt
	message.Status = "completed"

	if err := o.store.StoreResponse(ctx, response.ID, "", req.PreviousResponseID, req.TenantID, start, tr); err != nil {
		return nil, nil, err
	}
	return response, tr, nil
}

// buildTranscript seeds a fresh transcript, carrying forward the steps of the
// previous response when the caller continues a conversation.
func (o *Orchestrator) buildTranscript(ctx context.Context, req Request, toolSchemas []map[string]any) (*transcript.Transcript, error) {
	tr := o.engine.InitializeTranscript(nil, req.Input, toolSchemas)
	if req.PreviousResponseID == "" {
		return tr, nil
	}
	previous, err := o.store.LoadTranscript(ctx, req.PreviousResponseID, req.TenantID)
	if errors.Is(err, store.ErrNotFound) {
		return tr, nil
	}
	if err != nil {
		return nil, err
	}
	tr.Steps = previous.Steps
	return tr, nil
}

// executeTools dispatches compiled calls sequentially through the registry.
// Tool failures become ok=false results; only task delegation errors abort
// the turn.
func (o *Orchestrator) executeTools(ctx context.Context, tr *transcript.Transcript, calls []transcript.ToolCall) ([]transcript.ToolResult, error) {
	toolCtx := &tools.Context{
		WorkspaceRoot:      o.cfg.Limits.WorkspaceRoot,
		ToolOutputMaxBytes: o.cfg.Limits.ToolOutputMaxBytes,
		WebfetchMaxBytes:   o.cfg.Limits.WebfetchMaxBytes,
	}

	results := make([]transcript.ToolResult, 0, len(calls))
	for _, call := range calls {
		if call.Tool == "" {
			results = append(results, failedResult("unknown", "unknown tool"))
			continue
		}
		definition, ok := o.registry.Get(call.Tool)
		if !ok {
			results = append(results, failedResult(call.Tool, "unknown tool"))
			continue
		}
		if call.Tool == "task" {
			result, err := o.executeTask(ctx, tr, call.Parameters)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
			continue
		}

		params := call.Parameters
		if params == nil {
			params = map[string]any{}
		}
		if err := definition.ValidateParams(params); err != nil {
			results = append(results, failedResult(call.Tool, err.Error()))
			o.countToolExecution(call.Tool, false)
			continue
		}
		output, err := definition.Execute(ctx, toolCtx, params)
		if err != nil {
			results = append(results, failedResult(call.Tool, err.Error()))
			o.countToolExecution(call.Tool, false)
			continue
		}
		results = append(results, transcript.ToolResult{Tool: call.Tool, OK: true, Output: output})
		o.countToolExecution(call.Tool, true)
	}
	return results, nil
}

// executeTask handles the recursive task tool: a single child generate turn,
// bounded by max_depth, persisted as a child session.
func (o *Orchestrator) executeTask(ctx context.Context, tr *transcript.Transcript, params map[string]any) (transcript.ToolResult, error) {
	depth := 1
	switch value := params["depth"].(type) {
	case float64:
		depth = int(value)
	case int:
		depth = value
	}
	if depth >= o.cfg.Limits.MaxDepth {
		return failedResult("task", "max depth exceeded"), nil
	}

	summaryInput := ""
	if len(tr.Steps) > 0 {
		last := tr.Steps[len(tr.Steps)-1]
		if last.ToolIntent != nil && *last.ToolIntent != "" {
			summaryInput = *last.ToolIntent
		} else {
			summaryInput = last.GeneratorOutput
		}
	}
	input := firstNonEmpty(stringValue(params["prompt"]), stringValue(params["description"]), summaryInput)

	child := o.engine.InitializeTranscript(nil, input, nil)
	output, err := o.engine.Generate(ctx, child)
	o.countUpstream("generator", err == nil)
	if err != nil {
		return transcript.ToolResult{}, err
	}
	o.engine.AppendStep(child, output, nil, nil)

	if _, err := o.store.CreateSession(ctx, child, depth, ""); err != nil {
		o.log.WarnContext(ctx, "child session write failed", "error", err)
	}
	return transcript.ToolResult{
		Tool:   "task",
		OK:     true,
		Output: map[string]any{"summary": output.Text},
	}, nil
}

func (o *Orchestrator) countUpstream(endpoint string, ok bool) {
	if o.metrics == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	o.metrics.GeneratorRequestCounter.WithLabelValues(endpoint, status).Inc()
}

func (o *Orchestrator) countToolExecution(name string, ok bool) {
	if o.metrics == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	o.metrics.ToolExecutionCounter.WithLabelValues(name, status).Inc()
}

func failedResult(tool, message string) transcript.ToolResult {
	return transcript.ToolResult{
		Tool:   tool,
		OK:     false,
		Output: map[string]any{"error": message},
	}
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
