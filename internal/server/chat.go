package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rantslabs/rants/internal/api"
	"github.com/rantslabs/rants/internal/orchestrator"
	"github.com/rantslabs/rants/internal/transcript"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload openai.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_request_error", "invalid_request")
		return
	}
	if !s.knownModel(payload.Model) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown model: %s", payload.Model), "invalid_request_error", "unknown_model")
		return
	}

	// Chat completions never execute tools locally: compiled calls are
	// projected back to the caller instead.
	response, tr, err := s.orch.Run(r.Context(), orchestrator.Request{
		Model:        payload.Model,
		Input:        messagesToInput(payload.Messages),
		ToolChoice:   "auto",
		TenantID:     s.tenantFor(r, ""),
		ExecuteTools: false,
	})
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}

	if payload.Stream {
		s.streamChat(w, response)
		return
	}

	message := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: response.ResponseText(),
	}
	finish := openai.FinishReasonStop
	if calls := lastToolCalls(tr); len(calls) > 0 {
		message.ToolCalls = projectToolCalls(response.ID, calls)
		finish = openai.FinishReasonToolCalls
	}

	writeJSON(w, http.StatusOK, openai.ChatCompletionResponse{
		ID:      response.ID,
		Object:  "chat.completion",
		Created: int64(response.CreatedAt),
		Model:   response.Model,
		Choices: []openai.ChatCompletionChoice{{
			Index:        0,
			Message:      message,
			FinishReason: finish,
		}},
	})
}

func (s *Server) streamChat(w http.ResponseWriter, response *api.ResponseObject) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	emit := func(choice openai.ChatCompletionStreamChoice) {
		chunk := openai.ChatCompletionStreamResponse{
			ID:      response.ID,
			Object:  "chat.completion.chunk",
			Created: int64(response.CreatedAt),
			Model:   response.Model,
			Choices: []openai.ChatCompletionStreamChoice{choice},
		}
		data, err := json.Marshal(chunk)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		if flusher != nil {
			flusher.Flush()
		}
	}

	for _, piece := range orchestrator.ChunkText(response.ResponseText()) {
		emit(openai.ChatCompletionStreamChoice{
			Index: 0,
			Delta: openai.ChatCompletionStreamChoiceDelta{Content: piece},
		})
	}
	emit(openai.ChatCompletionStreamChoice{
		Index:        0,
		Delta:        openai.ChatCompletionStreamChoiceDelta{},
		FinishReason: openai.FinishReasonStop,
	})
	fmt.Fprint(w, "data: [DONE]\n\n")
	if flusher != nil {
		flusher.Flush()
	}
}

// messagesToInput folds chat messages into the single input string the
// generator consumes, one "<role>: <text>" line per message or text part.
func messagesToInput(messages []openai.ChatCompletionMessage) string {
	var parts []string
	for _, message := range messages {
		role := message.Role
		if role == "" {
			role = openai.ChatMessageRoleUser
		}
		if len(message.MultiContent) > 0 {
			for _, item := range message.MultiContent {
				if item.Type == openai.ChatMessagePartTypeText || string(item.Type) == "input_text" {
					parts = append(parts, fmt.Sprintf("%s: %s", role, item.Text))
				}
			}
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", role, message.Content))
	}
	return strings.Join(parts, "\n")
}

// lastToolCalls returns the compiled calls of the final transcript step.
func lastToolCalls(tr *transcript.Transcript) []transcript.ToolCall {
	if tr == nil || len(tr.Steps) == 0 {
		return nil
	}
	return tr.Steps[len(tr.Steps)-1].ToolCalls
}

// projectToolCalls maps compiled calls onto the chat wire format with
// deterministic per-response call ids.
func projectToolCalls(responseID string, calls []transcript.ToolCall) []openai.ToolCall {
	projected := make([]openai.ToolCall, 0, len(calls))
	for i, call := range calls {
		arguments, err := json.Marshal(call.Parameters)
		if err != nil {
			arguments = []byte("{}")
		}
		projected = append(projected, openai.ToolCall{
			ID:   fmt.Sprintf("call_%s_%d", responseID, i),
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      call.Tool,
				Arguments: string(arguments),
			},
		})
	}
	return projected
}
