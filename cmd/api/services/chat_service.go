package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/the-beginners-2025/backend-go/cmd/api/clients/llmclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/clients/ragclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/sse"
	"github.com/the-beginners-2025/backend-go/logger"
	"github.com/the-beginners-2025/backend-go/models"
)

// ContentStream is the upstream answer stream for one chat turn. Next
// yields cumulative snapshots of the answer so far.
type ContentStream interface {
	Next() (snapshot string, ok bool)
	Err() error
	References() []ragclient.ReferenceChunk
	CompleteMessage() string
	Close() error
}

// StreamStarter opens the upstream content stream for one turn.
type StreamStarter func(ctx context.Context, userID, conversationID, question string) (ContentStream, error)

// Generator runs one non-streaming LLM call.
type Generator func(ctx context.Context, messages []llmclient.Message) (string, error)

// conversationStore is the slice of the conversation repository the
// chat turn needs.
type conversationStore interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (models.Conversation, error)
	TouchUpdated(ctx context.Context, id, userID uuid.UUID) error
	UpdateTitle(ctx context.Context, id, userID uuid.UUID, title string) error
}

// ChatService orchestrates one streaming chat turn: it drives the
// upstream answer stream, re-paces its text into small slices, and
// merges in the related-questions and title side tasks.
type ChatService struct {
	conversations conversationStore
	startStream   StreamStarter
	generate      Generator

	// injectable clocks so pacing is testable
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func NewChatService(conversations conversationStore, startStream StreamStarter, generate Generator) *ChatService {
	return &ChatService{
		conversations: conversations,
		startStream:   startStream,
		generate:      generate,
		now:           time.Now,
		sleep:         sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// ChatTurn is one validated chat request, ready to stream. needTitle
// is latched here and does not change even if the title is modified
// concurrently.
type ChatTurn struct {
	UserID         uuid.UUID
	ConversationID uuid.UUID
	Question       string
	needTitle      bool
}

// Prepare validates the question and loads the conversation before
// any streaming byte is written, so validation failures can still be
// plain HTTP errors.
func (s *ChatService) Prepare(ctx context.Context, userID, conversationID uuid.UUID, question string) (*ChatTurn, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	conversation, err := s.conversations.FindByIDAndUser(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.TouchUpdated(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return &ChatTurn{
		UserID:         userID,
		ConversationID: conversationID,
		Question:       question,
		needTitle:      conversation.Title == models.DefaultConversationTitle,
	}, nil
}

// Stream runs the turn and emits the ordered event sequence through
// send: content slices, then finish, then related_questions, then
// title when this is the conversation's first turn.
//
// The side tasks run on a detached context so a client disconnect
// does not abandon the title persistence; after a send failure no
// further events are written but the turn still runs to completion.
func (s *ChatService) Stream(ctx context.Context, turn *ChatTurn, send func(event any) error) error {
	background := context.Background()

	relatedCh := make(chan []string, 1)
	go func() {
		relatedCh <- s.generateRelatedQuestions(background, turn.Question)
	}()

	var titleCh chan string
	if turn.needTitle {
		titleCh = make(chan string, 1)
		go func() {
			titleCh <- s.generateTitle(background, turn.Question)
		}()
	}

	stream, err := s.startStream(ctx, turn.UserID.String(), turn.ConversationID.String(), turn.Question)
	if err != nil {
		return err
	}
	defer stream.Close()

	// After a write failure the client is gone; keep draining the
	// upstream so the session records the full answer, but stop
	// writing and pacing.
	writeFailed := false
	emit := func(event any) {
		if writeFailed {
			return
		}
		if err := send(event); err != nil {
			writeFailed = true
			logger.DebugWithFields("chat stream client write failed", logger.Fields{
				"conversation_id": turn.ConversationID.String(),
				"error":           err.Error(),
			})
		}
	}
	pace := func(d time.Duration) {
		if writeFailed || d <= 0 {
			return
		}
		s.sleep(ctx, d)
	}

	emitPaced := func(delta string, interval time.Duration) {
		blocks := splitBlocks(delta, contentSliceLen)
		for i, block := range blocks {
			emit(sse.ContentEvent{Type: sse.EventContent, Role: "assistant", Content: block})
			if i < len(blocks)-1 {
				pace(interval)
			}
		}
	}

	// Peek-ahead loop: receiving snapshot i+1 fixes the inter-arrival
	// gap used to pace delta i, so every delta but the last is spread
	// over the time the upstream actually spent producing it.
	var prevDelta string
	var prevTime time.Time
	var prevSnapshot string
	havePrev := false
	for {
		snapshot, ok := stream.Next()
		if !ok {
			break
		}
		arrivedAt := s.now()

		delta := snapshot
		if strings.HasPrefix(snapshot, prevSnapshot) {
			delta = snapshot[len(prevSnapshot):]
		}
		prevSnapshot = snapshot
		if delta == "" {
			continue
		}

		if havePrev {
			blocks := (len([]rune(prevDelta)) + contentSliceLen - 1) / contentSliceLen
			emitPaced(prevDelta, sendInterval(arrivedAt.Sub(prevTime), blocks))
		}
		prevDelta = delta
		prevTime = arrivedAt
		havePrev = true
	}

	// Final delta has no arrival gap to pace against; use the fixed
	// fallback rate.
	if havePrev {
		emitPaced(prevDelta, finalFlushInterval)
	}

	if err := stream.Err(); err != nil {
		return err
	}

	references := stream.References()
	completeMessage := stream.CompleteMessage()
	if len(references) > 0 || completeMessage != "" {
		refs := make([]sse.Reference, len(references))
		for i, r := range references {
			refs[i] = sse.Reference{
				ID:           r.ID,
				Content:      r.Content,
				DatasetID:    r.DatasetID,
				DocumentID:   r.DocumentID,
				DocumentName: r.DocumentName,
			}
		}
		emit(sse.FinishEvent{Type: sse.EventFinish, References: refs, CompleteMessage: completeMessage})
	}

	related := <-relatedCh
	if related == nil {
		related = []string{}
	}
	emit(sse.RelatedQuestionsEvent{Type: sse.EventRelatedQuestions, RelatedQuestions: related})

	if turn.needTitle {
		title := <-titleCh
		emit(sse.TitleEvent{Type: sse.EventTitle, Title: title})

		// The event is already on the wire; a persistence failure is
		// logged and swallowed so it cannot break the stream.
		persistCtx, cancel := context.WithTimeout(background, 10*time.Second)
		defer cancel()
		if err := s.conversations.UpdateTitle(persistCtx, turn.ConversationID, turn.UserID, title); err != nil {
			logger.ErrorWithFields("failed to persist conversation title", logger.Fields{
				"conversation_id": turn.ConversationID.String(),
				"error":           err.Error(),
			})
		}
	}
	return nil
}

// generateRelatedQuestions asks the model for follow-up questions and
// newline-splits the answer. Any failure degrades to an empty list.
func (s *ChatService) generateRelatedQuestions(ctx context.Context, question string) []string {
	response, err := s.generate(ctx, []llmclient.Message{
		{Role: llmclient.RoleSystem, Content: relatedQuestionsPrompt},
		{Role: llmclient.RoleUser, Content: question},
	})
	if err != nil {
		logger.ErrorWithFields("related questions generation failed", logger.Fields{
			"error": err.Error(),
		})
		return []string{}
	}
	return strings.Split(response, "\n")
}

// generateTitle asks the model for a conversation title. Any failure
// degrades to the sentinel title so the conversation stays renameable
// on the next turn.
func (s *ChatService) generateTitle(ctx context.Context, question string) string {
	response, err := s.generate(ctx, []llmclient.Message{
		{Role: llmclient.RoleSystem, Content: titlePrompt},
		{Role: llmclient.RoleUser, Content: question},
	})
	if err != nil {
		logger.ErrorWithFields("title generation failed", logger.Fields{
			"error": err.Error(),
		})
		return models.DefaultConversationTitle
	}
	return response
}
