package orchestrator

import "github.com/rantslabs/rants/internal/api"

const streamChunkSize = 64

// ChunkText slices text into fixed-size chunks of at most 64 characters,
// counted in code points so multibyte text never splits mid-rune.
func ChunkText(text string) []string {
	runes := []rune(text)
	chunks := []string{}
	for i := 0; i < len(runes); i += streamChunkSize {
		end := i + streamChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Events projects a completed response into the deterministic SSE event
// sequence: created, per-chunk deltas, done, completed. Sequence numbers
// start at 0 with no gaps.
func Events(response *api.ResponseObject) []api.ResponseEvent {
	sequence := 0
	next := func() int {
		n := sequence
		sequence++
		return n
	}
	zero := 0

	events := []api.ResponseEvent{{
		Type:           "response.created",
		SequenceNumber: next(),
		Response:       response,
	}}

	text := response.ResponseText()
	itemID := ""
	if len(response.Output) > 0 {
		itemID = response.Output[0].ID
	}
	for _, chunk := range ChunkText(text) {
		events = append(events, api.ResponseEvent{
			Type:           "response.output_text.delta",
			SequenceNumber: next(),
			ItemID:         itemID,
			OutputIndex:    &zero,
			ContentIndex:   &zero,
			Delta:          chunk,
			Logprobs:       []any{},
		})
	}

	events = append(events, api.ResponseEvent{
		Type:           "response.output_text.done",
		SequenceNumber: next(),
		ItemID:         itemID,
		OutputIndex:    &zero,
		ContentIndex:   &zero,
		Text:           text,
		Logprobs:       []any{},
	})
	events = append(events, api.ResponseEvent{
		Type:           "response.completed",
		SequenceNumber: next(),
		Response:       response,
	})
	return events
}
