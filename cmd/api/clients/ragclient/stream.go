package ragclient

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ChatStream iterates the completion endpoint's event stream. Next
// yields cumulative answer snapshots; each snapshot is the full answer
// so far, not a delta. The frame carrying the reference chunks is
// consumed internally and exposed through References and
// CompleteMessage once the stream ends.
type ChatStream struct {
	body    io.ReadCloser
	reader  *bufio.Reader
	done    bool
	err     error
	refs    []ReferenceChunk
	message string
}

func newChatStream(body io.ReadCloser) *ChatStream {
	return &ChatStream{
		body:   body,
		reader: bufio.NewReaderSize(body, 64*1024),
		refs:   []ReferenceChunk{},
	}
}

// completionFrame is one "data:" line. Data is either the payload
// object or the bare boolean true on the terminal frame.
type completionFrame struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type completionPayload struct {
	Answer    string `json:"answer"`
	Reference *struct {
		Chunks []ReferenceChunk `json:"chunks"`
	} `json:"reference"`
}

// Next returns the next cumulative snapshot. ok is false when the
// stream has ended, whether normally or with an error; check Err
// afterwards.
func (s *ChatStream) Next() (snapshot string, ok bool) {
	if s.done || s.err != nil {
		return "", false
	}
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			switch {
			case err == io.EOF && strings.TrimSpace(line) == "":
				// stream ended without a terminal frame
				s.done = true
			case err == io.EOF:
				s.err = fmt.Errorf("ragclient: stream truncated")
			default:
				s.err = err
			}
			return "", false
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		raw := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if raw == "" {
			continue
		}

		var frame completionFrame
		if err := json.Unmarshal([]byte(raw), &frame); err != nil {
			s.err = fmt.Errorf("ragclient: decode stream frame: %w", err)
			return "", false
		}
		if frame.Code != 0 {
			s.err = fmt.Errorf("ragclient: stream error: code %d: %s", frame.Code, frame.Message)
			return "", false
		}
		if bytes.Equal(bytes.TrimSpace(frame.Data), []byte("true")) {
			s.done = true
			return "", false
		}

		var payload completionPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			s.err = fmt.Errorf("ragclient: decode stream payload: %w", err)
			return "", false
		}

		if payload.Reference != nil && len(payload.Reference.Chunks) > 0 {
			// The reference frame repeats the full answer with its
			// chunk list. Reconcile and keep the result instead of
			// yielding it as a snapshot.
			refs, content := ReorderReferences(payload.Answer, payload.Reference.Chunks)
			s.refs = refs
			s.message = content
			continue
		}

		s.message = payload.Answer
		return payload.Answer, true
	}
}

// Err reports the error that terminated the stream, if any.
func (s *ChatStream) Err() error {
	return s.err
}

// References returns the reconciled citation chunks. Valid once Next
// has returned false.
func (s *ChatStream) References() []ReferenceChunk {
	return s.refs
}

// CompleteMessage returns the final answer text. When a reference
// frame arrived this is the reconciled text, otherwise the last
// snapshot.
func (s *ChatStream) CompleteMessage() string {
	return s.message
}

// Close releases the underlying response body.
func (s *ChatStream) Close() error {
	return s.body.Close()
}
