package tools

// NewDefaultRegistry builds the stock tool catalog. Registration order is
// the order tool schemas are presented to the tool compiler.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	defs := []Definition{
		{
			Name:        "bash",
			Description: "Execute a shell command",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"command": map[string]any{"type": "string"},
					"timeout": map[string]any{"type": "integer"},
					"workdir": map[string]any{"type": "string"},
				},
				"required": []any{"command"},
			},
			Execute: execBash,
		},
		{
			Name:        "read",
			Description: "Read a file from disk",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filePath": map[string]any{"type": "string"},
					"offset":   map[string]any{"type": "integer"},
					"limit":    map[string]any{"type": "integer"},
				},
				"required": []any{"filePath"},
			},
			Execute: execRead,
		},
		{
			Name:        "write",
			Description: "Write a file to disk",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filePath": map[string]any{"type": "string"},
					"content":  map[string]any{"type": "string"},
				},
				"required": []any{"filePath", "content"},
			},
			Execute: execWrite,
		},
		{
			Name:        "edit",
			Description: "Edit a file with string replacement",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filePath":   map[string]any{"type": "string"},
					"oldString":  map[string]any{"type": "string"},
					"newString":  map[string]any{"type": "string"},
					"replaceAll": map[string]any{"type": "boolean"},
				},
				"required": []any{"filePath", "oldString", "newString"},
			},
			Execute: execEdit,
		},
		{
			Name:        "multiedit",
			Description: "Apply multiple edits to a file",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filePath": map[string]any{"type": "string"},
					"edits": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"oldString":  map[string]any{"type": "string"},
								"newString":  map[string]any{"type": "string"},
								"replaceAll": map[string]any{"type": "boolean"},
							},
							"required": []any{"oldString", "newString"},
						},
					},
				},
				"required": []any{"filePath", "edits"},
			},
			Execute: execMultiedit,
		},
		{
			Name:        "patch",
			Description: "Apply a unified diff patch",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"patch": map[string]any{"type": "string"},
				},
				"required": []any{"patch"},
			},
			Execute: execPatch,
		},
		{
			Name:        "ls",
			Description: "List directory entries",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{"type": "string"},
				},
			},
			Execute: execLs,
		},
		{
			Name:        "glob",
			Description: "Match file paths",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pattern": map[string]any{"type": "string"},
					"path":    map[string]any{"type": "string"},
				},
				"required": []any{"pattern"},
			},
			Execute: execGlob,
		},
		{
			Name:        "grep",
			Description: "Search file contents",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pattern": map[string]any{"type": "string"},
					"path":    map[string]any{"type": "string"},
					"include": map[string]any{"type": "string"},
				},
				"required": []any{"pattern"},
			},
			Execute: execGrep,
		},
		{
			Name:        "webfetch",
			Description: "Fetch web content",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{"type": "string"},
				},
				"required": []any{"url"},
			},
			Execute: execWebfetch,
		},
		{
			Name:        "websearch",
			Description: "Search the web",
			Schema:      map[string]any{"type": "object", "properties": map[string]any{}},
			Execute:     execWebsearch,
		},
		{
			Name:        "codesearch",
			Description: "Search code",
			Schema:      map[string]any{"type": "object", "properties": map[string]any{}},
			Execute:     execCodesearch,
		},
		{
			Name:        "todo_read",
			Description: "Read todo list",
			Schema:      map[string]any{"type": "object", "properties": map[string]any{}},
			Execute:     execTodoRead,
		},
		{
			Name:        "todo_write",
			Description: "Write todo list",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"todos": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "object"},
					},
				},
			},
			Execute: execTodoWrite,
		},
		{
			Name:        "task",
			Description: "Run a recursive task",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"description":   map[string]any{"type": "string"},
					"prompt":        map[string]any{"type": "string"},
					"subagent_type": map[string]any{"type": "string"},
					"session_id":    map[string]any{"type": "string"},
				},
				"required": []any{"description", "prompt", "subagent_type"},
			},
			Execute: execTask,
		},
		{
			Name:        "skill",
			Description: "Load a skill module",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
				"required": []any{"name"},
			},
			Execute: execSkill,
		},
		{
			Name:        "batch",
			Description: "Execute multiple tools",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tool_uses": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"recipient_name": map[string]any{"type": "string"},
								"parameters":     map[string]any{"type": "object"},
							},
							"required": []any{"recipient_name", "parameters"},
						},
					},
				},
				"required": []any{"tool_uses"},
			},
			Execute: execBatch,
		},
		{
			Name:        "invalid",
			Description: "Invalid tool placeholder",
			Schema:      map[string]any{"type": "object", "properties": map[string]any{}},
			Execute:     execInvalid,
		},
	}
	for _, def := range defs {
		registry.Register(def)
	}
	return registry
}
