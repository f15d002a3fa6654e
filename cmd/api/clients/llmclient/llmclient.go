// Package llmclient wraps the OpenAI-compatible completion endpoint
// used for title generation, related questions and diagram rendering.
package llmclient

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/the-beginners-2025/backend-go/logger"
	"github.com/the-beginners-2025/backend-go/models"
)

// Roles accepted in chat messages.
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// UsageRecorder persists one AI call log entry. Implementations must
// tolerate being called from multiple goroutines.
type UsageRecorder interface {
	Insert(ctx context.Context, log models.AILog) error
}

// Client calls the completion endpoint with a fixed model.
type Client struct {
	client   *openai.Client
	model    string
	recorder UsageRecorder
}

// New builds a Client. recorder may be nil, in which case calls are
// not logged.
func New(endpoint, token, model string, recorder UsageRecorder) *Client {
	cfg := openai.DefaultConfig(token)
	cfg.BaseURL = endpoint
	return &Client{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		recorder: recorder,
	}
}

func toOpenAI(messages []Message) []openai.ChatCompletionMessage {
	converted := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		converted[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return converted
}

// Chat runs a non-streaming completion and returns the assistant
// message content.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	requestedAt := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAI(messages),
	})
	completedAt := time.Now()

	if err != nil {
		c.record(messages, "", requestedAt, completedAt, openai.Usage{}, err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		err := errors.New("llmclient: completion returned no choices")
		c.record(messages, "", requestedAt, completedAt, resp.Usage, err)
		return "", err
	}

	content := resp.Choices[0].Message.Content
	c.record(messages, content, requestedAt, completedAt, resp.Usage, nil)
	return content, nil
}

// Stream iterates delta chunks of a streaming completion.
type Stream struct {
	inner       *openai.ChatCompletionStream
	client      *Client
	messages    []Message
	output      strings.Builder
	requestedAt time.Time
	recorded    bool
}

// ChatStream starts a streaming completion. The caller must Close the
// returned stream.
func (c *Client) ChatStream(ctx context.Context, messages []Message) (*Stream, error) {
	requestedAt := time.Now()
	inner, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAI(messages),
		Stream:   true,
	})
	if err != nil {
		c.record(messages, "", requestedAt, time.Now(), openai.Usage{}, err)
		return nil, err
	}
	return &Stream{
		inner:       inner,
		client:      c,
		messages:    messages,
		requestedAt: requestedAt,
	}, nil
}

// Recv returns the next delta chunk. io.EOF marks a clean end.
func (s *Stream) Recv() (string, error) {
	resp, err := s.inner.Recv()
	if errors.Is(err, io.EOF) {
		s.finish(nil)
		return "", io.EOF
	}
	if err != nil {
		s.finish(err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	delta := resp.Choices[0].Delta.Content
	s.output.WriteString(delta)
	return delta, nil
}

// Close releases the stream. Usage is recorded here when the stream
// was abandoned before EOF.
func (s *Stream) Close() error {
	s.finish(nil)
	s.inner.Close()
	return nil
}

func (s *Stream) finish(callErr error) {
	if s.recorded {
		return
	}
	s.recorded = true
	s.client.record(s.messages, s.output.String(), s.requestedAt, time.Now(), openai.Usage{}, callErr)
}

// record writes the call log asynchronously so logging latency never
// delays a response.
func (c *Client) record(messages []Message, output string, requestedAt, completedAt time.Time, usage openai.Usage, callErr error) {
	if c.recorder == nil {
		return
	}

	var prompt strings.Builder
	for i, m := range messages {
		if i > 0 {
			prompt.WriteString("\n")
		}
		prompt.WriteString(m.Role)
		prompt.WriteString(": ")
		prompt.WriteString(m.Content)
	}

	entry := models.AILog{
		ModelName:      c.model,
		InputTokens:    int64(usage.PromptTokens),
		OutputTokens:   int64(usage.CompletionTokens),
		TotalTokens:    int64(usage.TotalTokens),
		DurationMs:     completedAt.Sub(requestedAt).Milliseconds(),
		InputPrompt:    prompt.String(),
		OutputResponse: output,
		RequestedAt:    requestedAt,
		CompletedAt:    completedAt,
	}
	if callErr != nil {
		msg := callErr.Error()
		entry.ErrorMessage = &msg
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.recorder.Insert(ctx, entry); err != nil {
			logger.ErrorWithFields("failed to record ai call log", logger.Fields{
				"model": c.model,
				"error": err.Error(),
			})
		}
	}()
}
