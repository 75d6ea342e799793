// Package api defines the OpenAI-compatible wire types exposed by the
// gateway's /v1/responses surface, plus helpers for the schema-loose
// payloads upstream models return.
package api

import "encoding/json"

// ResponseStatus is the lifecycle state of a response turn.
type ResponseStatus string

const (
	StatusQueued     ResponseStatus = "queued"
	StatusInProgress ResponseStatus = "in_progress"
	StatusCompleted  ResponseStatus = "completed"
	StatusFailed     ResponseStatus = "failed"
	StatusCancelled  ResponseStatus = "cancelled"
	StatusIncomplete ResponseStatus = "incomplete"
)

// OutputTextContent is the single text content item of an output message.
type OutputTextContent struct {
	Type        string           `json:"type"`
	Text        string           `json:"text"`
	Annotations []map[string]any `json:"annotations"`
}

// OutputMessage is the assistant message carried in a response's output list.
type OutputMessage struct {
	Type    string              `json:"type"`
	ID      string              `json:"id"`
	Status  string              `json:"status"`
	Role    string              `json:"role"`
	Content []OutputTextContent `json:"content"`
}

// NewOutputMessage builds an in-progress assistant message with one empty
// text content item.
func NewOutputMessage(id string) *OutputMessage {
	return &OutputMessage{
		Type:    "message",
		ID:      id,
		Status:  "in_progress",
		Role:    "assistant",
		Content: []OutputTextContent{{Type: "output_text", Annotations: []map[string]any{}}},
	}
}

// ResponseError mirrors the OpenAI error object embedded in failed responses.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ResponseUsage reports token accounting for a turn.
type ResponseUsage struct {
	InputTokens         int            `json:"input_tokens"`
	OutputTokens        int            `json:"output_tokens"`
	TotalTokens         int            `json:"total_tokens"`
	InputTokensDetails  map[string]int `json:"input_tokens_details,omitempty"`
	OutputTokensDetails map[string]int `json:"output_tokens_details,omitempty"`
}

// ResponseObject is the externally visible result of one turn. It is
// immutable once persisted; the id is the key the transcript is stored under.
type ResponseObject struct {
	ID                 string           `json:"id"`
	Object             string           `json:"object"`
	CreatedAt          float64          `json:"created_at"`
	CompletedAt        *float64         `json:"completed_at,omitempty"`
	Status             ResponseStatus   `json:"status"`
	Error              *ResponseError   `json:"error,omitempty"`
	IncompleteDetails  map[string]any   `json:"incomplete_details,omitempty"`
	Instructions       *string          `json:"instructions,omitempty"`
	MaxOutputTokens    *int             `json:"max_output_tokens,omitempty"`
	Model              string           `json:"model"`
	Output             []*OutputMessage `json:"output"`
	ParallelToolCalls  bool             `json:"parallel_tool_calls"`
	PreviousResponseID *string          `json:"previous_response_id,omitempty"`
	Store              bool             `json:"store"`
	Temperature        *float64         `json:"temperature,omitempty"`
	Text               map[string]any   `json:"text"`
	ToolChoice         any              `json:"tool_choice"`
	Tools              []map[string]any `json:"tools"`
	TopP               *float64         `json:"top_p,omitempty"`
	Truncation         string           `json:"truncation"`
	Usage              *ResponseUsage   `json:"usage,omitempty"`
	User               string           `json:"user,omitempty"`
	Metadata           map[string]any   `json:"metadata"`
}

// NewResponseObject builds a response in the in-progress state with the
// standard constant fields populated.
func NewResponseObject(id string, createdAt float64, model string) *ResponseObject {
	return &ResponseObject{
		ID:                id,
		Object:            "response",
		CreatedAt:         createdAt,
		Status:            StatusInProgress,
		Model:             model,
		ParallelToolCalls: true,
		Store:             true,
		Text:              map[string]any{"format": map[string]any{"type": "text"}},
		ToolChoice:        "auto",
		Tools:             []map[string]any{},
		Truncation:        "disabled",
		Metadata:          map[string]any{},
	}
}

// ResponseText returns the accumulated assistant text, or an empty string
// when the output list is missing.
func (r *ResponseObject) ResponseText() string {
	if r == nil || len(r.Output) == 0 || len(r.Output[0].Content) == 0 {
		return ""
	}
	return r.Output[0].Content[0].Text
}

// ResponseEvent is one SSE event in the streamed response projection.
type ResponseEvent struct {
	Type           string          `json:"type"`
	SequenceNumber int             `json:"sequence_number"`
	Response       *ResponseObject `json:"response,omitempty"`
	ItemID         string          `json:"item_id,omitempty"`
	OutputIndex    *int            `json:"output_index,omitempty"`
	ContentIndex   *int            `json:"content_index,omitempty"`
	Delta          string          `json:"delta,omitempty"`
	Text           string          `json:"text,omitempty"`
	Logprobs       []any           `json:"logprobs,omitempty"`
}

// ResponseRequest is the body of POST /v1/responses. Input is either a plain
// string or an array of content items; it is kept raw and folded by
// InputText.
type ResponseRequest struct {
	Model              string           `json:"model"`
	Input              json.RawMessage  `json:"input"`
	Tools              []map[string]any `json:"tools"`
	ToolChoice         any              `json:"tool_choice"`
	Stream             bool             `json:"stream"`
	MaxOutputTokens    *int             `json:"max_output_tokens"`
	Temperature        *float64         `json:"temperature"`
	PreviousResponseID string           `json:"previous_response_id"`
	User               string           `json:"user"`
}
