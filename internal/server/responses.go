package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rantslabs/rants/internal/api"
	"github.com/rantslabs/rants/internal/orchestrator"
)

func (s *Server) handleResponses(w http.ResponseWriter, r *http.Request) {
	var payload api.ResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_request_error", "invalid_request")
		return
	}
	if !s.knownModel(payload.Model) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown model: %s", payload.Model), "invalid_request_error", "unknown_model")
		return
	}

	response, _, err := s.orch.Run(r.Context(), orchestrator.Request{
		Model:              payload.Model,
		Input:              api.InputText(payload.Input),
		Tools:              payload.Tools,
		ToolChoice:         payload.ToolChoice,
		PreviousResponseID: payload.PreviousResponseID,
		TenantID:           s.tenantFor(r, payload.User),
		ExecuteTools:       true,
	})
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}

	if payload.Stream {
		s.streamResponse(w, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// streamResponse writes the deterministic post-hoc event projection as SSE.
func (s *Server) streamResponse(w http.ResponseWriter, response *api.ResponseObject) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	for _, event := range orchestrator.Events(response) {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		if flusher != nil {
			flusher.Flush()
		}
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
	if flusher != nil {
		flusher.Flush()
	}
}
