package api

import (
	"encoding/json"
	"strings"
)

// ExtractOutputText walks an upstream /responses payload and returns the
// first output_text content of the first message item. Any missing or
// mistyped path yields an empty string.
func ExtractOutputText(data map[string]any) string {
	output, _ := data["output"].([]any)
	for _, raw := range output {
		item, ok := raw.(map[string]any)
		if !ok || item["type"] != "message" {
			continue
		}
		contents, _ := item["content"].([]any)
		for _, rawContent := range contents {
			content, ok := rawContent.(map[string]any)
			if !ok || content["type"] != "output_text" {
				continue
			}
			text, _ := content["text"].(string)
			return text
		}
	}
	return ""
}

// InputText folds a request's input field into a single string. A JSON
// string passes through; an array of content items contributes the text of
// each input_text part (or a plain string content) joined by newlines.
func InputText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	var parts []string
	for _, item := range items {
		switch content := item["content"].(type) {
		case string:
			parts = append(parts, content)
		case []any:
			for _, rawPart := range content {
				part, ok := rawPart.(map[string]any)
				if !ok || part["type"] != "input_text" {
					continue
				}
				if text, ok := part["text"].(string); ok {
					parts = append(parts, text)
				}
			}
		}
	}
	return strings.Join(parts, "\n")
}
