package tools

import (
	"context"
	"fmt"
)

// Executors for tools that exist in the default schema catalog but have no
// local backend. Search tools fail loudly so callers see the gap; the todo
// tools accept and discard their input.

func execWebsearch(_ context.Context, _ *Context, _ map[string]any) (map[string]any, error) {
	return nil, fmt.Errorf("websearch not configured")
}

func execCodesearch(_ context.Context, _ *Context, _ map[string]any) (map[string]any, error) {
	return nil, fmt.Errorf("codesearch not configured")
}

func execTodoRead(_ context.Context, _ *Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{"todos": []any{}}, nil
}

func execTodoWrite(_ context.Context, _ *Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{"ok": true}, nil
}

// execTask is a fallback only. Delegation normally happens in the
// orchestrator before dispatch reaches the registry.
func execTask(_ context.Context, _ *Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{"error": "task delegation must be handled by the orchestrator"}, nil
}

func execSkill(_ context.Context, _ *Context, params map[string]any) (map[string]any, error) {
	name := stringParam(params, "name")
	return map[string]any{"error": fmt.Sprintf("skill not available: %s", name)}, nil
}

func execBatch(_ context.Context, _ *Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{"error": "batch execution not supported"}, nil
}

func execInvalid(_ context.Context, _ *Context, params map[string]any) (map[string]any, error) {
	reason := stringParam(params, "reason")
	if reason == "" {
		reason = "invalid tool call"
	}
	return map[string]any{"error": reason}, nil
}
