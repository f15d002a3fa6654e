// Package sse implements the server-sent-events wire format used by
// the streaming chat and diagram endpoints. Every event is one JSON
// object framed as "data: <json>\n\n".
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Event names carried in the "type" field of each payload.
const (
	EventContent          = "content"
	EventFinish           = "finish"
	EventRelatedQuestions = "related_questions"
	EventTitle            = "title"
)

// ContentEvent carries one pacing slice of the assistant answer.
type ContentEvent struct {
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reference describes one knowledge base chunk cited by the answer.
type Reference struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	DatasetID    string `json:"dataset_id"`
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
}

// FinishEvent closes the content phase and delivers the reconciled
// references plus the full message text.
type FinishEvent struct {
	Type            string      `json:"type"`
	References      []Reference `json:"references"`
	CompleteMessage string      `json:"complete_message"`
}

// RelatedQuestionsEvent delivers follow-up question suggestions. The
// list is empty when generation failed.
type RelatedQuestionsEvent struct {
	Type             string   `json:"type"`
	RelatedQuestions []string `json:"related_questions"`
}

// TitleEvent delivers the generated conversation title. Sent only on
// the first turn of a conversation.
type TitleEvent struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

// Writer frames JSON payloads as SSE data events and flushes after
// each one so slices reach the client without buffering delays.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter sets the SSE response headers and returns a Writer. The
// returned error is non-nil when the underlying writer cannot flush.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("sse: response writer does not support flushing")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	return &Writer{w: w, flusher: flusher}, nil
}

// Send marshals the event and writes a single data frame.
func (s *Writer) Send(event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("sse: marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("sse: write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}
