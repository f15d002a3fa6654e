package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-beginners-2025/backend-go/cmd/api/clients/llmclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/clients/ragclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/sse"
	"github.com/the-beginners-2025/backend-go/models"
	"github.com/the-beginners-2025/backend-go/repositories"
)

type fakeConversations struct {
	conversation models.Conversation
	findErr      error
	titleErr     error

	touched        bool
	persistedTitle string
}

func (f *fakeConversations) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (models.Conversation, error) {
	if f.findErr != nil {
		return models.Conversation{}, f.findErr
	}
	return f.conversation, nil
}

func (f *fakeConversations) TouchUpdated(context.Context, uuid.UUID, uuid.UUID) error {
	f.touched = true
	return nil
}

func (f *fakeConversations) UpdateTitle(_ context.Context, _, _ uuid.UUID, title string) error {
	if f.titleErr != nil {
		return f.titleErr
	}
	f.persistedTitle = title
	return nil
}

type fakeStream struct {
	snapshots []string
	index     int
	refs      []ragclient.ReferenceChunk
	complete  string
	err       error
	closed    bool
}

func (f *fakeStream) Next() (string, bool) {
	if f.index >= len(f.snapshots) {
		return "", false
	}
	snapshot := f.snapshots[f.index]
	f.index++
	return snapshot, true
}

func (f *fakeStream) Err() error                             { return f.err }
func (f *fakeStream) References() []ragclient.ReferenceChunk { return f.refs }
func (f *fakeStream) CompleteMessage() string                { return f.complete }
func (f *fakeStream) Close() error                           { f.closed = true; return nil }

// chatFixture wires a ChatService with fakes and a scripted clock.
type chatFixture struct {
	service       *ChatService
	conversations *fakeConversations
	stream        *fakeStream
	streamStarts  int
	llmErr        error
	llmTitle      string
	llmRelated    string
	sleeps        []time.Duration
	events        []any
}

func newChatFixture(stream *fakeStream, title string) *chatFixture {
	f := &chatFixture{
		conversations: &fakeConversations{
			conversation: models.Conversation{Title: title},
		},
		stream:     stream,
		llmTitle:   "勾股定理",
		llmRelated: "问题一\n问题二\n问题三",
	}

	start := func(ctx context.Context, userID, conversationID, question string) (ContentStream, error) {
		f.streamStarts++
		return f.stream, nil
	}
	generate := func(ctx context.Context, messages []llmclient.Message) (string, error) {
		if f.llmErr != nil {
			return "", f.llmErr
		}
		if messages[0].Content == titlePrompt {
			return f.llmTitle, nil
		}
		return f.llmRelated, nil
	}

	f.service = NewChatService(f.conversations, start, generate)

	// scripted clock: each arrival is one second after the previous
	base := time.Unix(0, 0)
	calls := 0
	f.service.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	f.service.sleep = func(_ context.Context, d time.Duration) {
		f.sleeps = append(f.sleeps, d)
	}
	return f
}

func (f *chatFixture) send(event any) error {
	f.events = append(f.events, event)
	return nil
}

func (f *chatFixture) run(t *testing.T, question string) {
	t.Helper()
	turn, err := f.service.Prepare(context.Background(), uuid.New(), uuid.New(), question)
	require.NoError(t, err)
	require.NoError(t, f.service.Stream(context.Background(), turn, f.send))
}

func (f *chatFixture) contentText() string {
	var sb strings.Builder
	for _, event := range f.events {
		if c, ok := event.(sse.ContentEvent); ok {
			sb.WriteString(c.Content)
		}
	}
	return sb.String()
}

func (f *chatFixture) eventTypes() []string {
	var types []string
	for _, event := range f.events {
		switch e := event.(type) {
		case sse.ContentEvent:
			types = append(types, e.Type)
		case sse.FinishEvent:
			types = append(types, e.Type)
		case sse.RelatedQuestionsEvent:
			types = append(types, e.Type)
		case sse.TitleEvent:
			types = append(types, e.Type)
		}
	}
	return types
}

func TestStreamEmitsOrderedEventSequence(t *testing.T) {
	stream := &fakeStream{
		snapshots: []string{"勾股", "勾股定理", "勾股定理成立"},
		refs: []ragclient.ReferenceChunk{
			{ID: "r1", Content: "参考", DatasetID: "ds", DocumentID: "doc", DocumentName: "教材.pdf"},
		},
		complete: "勾股定理成立##0$$",
	}
	f := newChatFixture(stream, models.DefaultConversationTitle)

	f.run(t, "什么是勾股定理")

	assert.Equal(t, "勾股定理成立", f.contentText())

	types := f.eventTypes()
	require.NotEmpty(t, types)
	// content events first, then finish, related_questions, title
	assert.Equal(t, []string{sse.EventFinish, sse.EventRelatedQuestions, sse.EventTitle}, types[len(types)-3:])
	for _, typ := range types[:len(types)-3] {
		assert.Equal(t, sse.EventContent, typ)
	}

	finish := f.events[len(f.events)-3].(sse.FinishEvent)
	assert.Equal(t, "勾股定理成立##0$$", finish.CompleteMessage)
	require.Len(t, finish.References, 1)
	assert.Equal(t, "r1", finish.References[0].ID)

	related := f.events[len(f.events)-2].(sse.RelatedQuestionsEvent)
	assert.Equal(t, []string{"问题一", "问题二", "问题三"}, related.RelatedQuestions)

	title := f.events[len(f.events)-1].(sse.TitleEvent)
	assert.Equal(t, "勾股定理", title.Title)
	assert.Equal(t, "勾股定理", f.conversations.persistedTitle)
	assert.True(t, stream.closed)
}

func TestStreamConcatenatesCumulativeSnapshots(t *testing.T) {
	stream := &fakeStream{snapshots: []string{"a", "ab", "abc"}, complete: "abc"}
	f := newChatFixture(stream, "已命名会话")

	f.run(t, "question")

	assert.Equal(t, "abc", f.contentText())
	// no title turn for an already named conversation
	assert.NotContains(t, f.eventTypes(), sse.EventTitle)
	assert.Empty(t, f.conversations.persistedTitle)
}

func TestStreamPacesSlicesAcrossArrivalGap(t *testing.T) {
	// first delta has four runes = two slices, paced over the 1s gap
	// to the second snapshot; the final delta uses the fixed interval
	stream := &fakeStream{snapshots: []string{"一二三四", "一二三四五六七八"}, complete: "一二三四五六七八"}
	f := newChatFixture(stream, "已命名会话")

	f.run(t, "question")

	assert.Equal(t, "一二三四五六七八", f.contentText())
	require.Len(t, f.sleeps, 2)
	assert.Equal(t, time.Second, f.sleeps[0])
	assert.Equal(t, finalFlushInterval, f.sleeps[1])
}

func TestPrepareRejectsWhitespaceQuestionWithoutUpstreamCalls(t *testing.T) {
	f := newChatFixture(&fakeStream{}, models.DefaultConversationTitle)

	_, err := f.service.Prepare(context.Background(), uuid.New(), uuid.New(), "   \n\t ")

	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Zero(t, f.streamStarts)
	assert.False(t, f.conversations.touched)
}

func TestPrepareReturnsNotFoundForForeignConversation(t *testing.T) {
	f := newChatFixture(&fakeStream{}, models.DefaultConversationTitle)
	f.conversations.findErr = repositories.ErrNotFound

	_, err := f.service.Prepare(context.Background(), uuid.New(), uuid.New(), "question")

	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Zero(t, f.streamStarts)
}

func TestTitleFailureDegradesToSentinel(t *testing.T) {
	stream := &fakeStream{snapshots: []string{"回答"}, complete: "回答"}
	f := newChatFixture(stream, models.DefaultConversationTitle)
	f.llmErr = errors.New("model unavailable")

	f.run(t, "question")

	types := f.eventTypes()
	assert.Contains(t, types, sse.EventRelatedQuestions)
	assert.Contains(t, types, sse.EventTitle)

	title := f.events[len(f.events)-1].(sse.TitleEvent)
	assert.Equal(t, models.DefaultConversationTitle, title.Title)
}

func TestRelatedQuestionsFailureDegradesToEmptyList(t *testing.T) {
	stream := &fakeStream{snapshots: []string{"回答"}, complete: "回答"}
	f := newChatFixture(stream, "已命名会话")
	f.llmErr = errors.New("model unavailable")

	f.run(t, "question")

	var related *sse.RelatedQuestionsEvent
	for _, event := range f.events {
		if e, ok := event.(sse.RelatedQuestionsEvent); ok {
			related = &e
		}
	}
	require.NotNil(t, related)
	assert.NotNil(t, related.RelatedQuestions)
	assert.Empty(t, related.RelatedQuestions)
}

func TestTitlePersistenceFailureIsSwallowed(t *testing.T) {
	stream := &fakeStream{snapshots: []string{"回答"}, complete: "回答"}
	f := newChatFixture(stream, models.DefaultConversationTitle)
	f.conversations.titleErr = errors.New("database down")

	f.run(t, "question")

	// the title event was still delivered even though persistence failed
	title := f.events[len(f.events)-1].(sse.TitleEvent)
	assert.Equal(t, "勾股定理", title.Title)
}

func TestStreamStopsWritingAfterSendFailure(t *testing.T) {
	stream := &fakeStream{snapshots: []string{"一二", "一二三四"}, complete: "一二三四"}
	f := newChatFixture(stream, models.DefaultConversationTitle)

	turn, err := f.service.Prepare(context.Background(), uuid.New(), uuid.New(), "question")
	require.NoError(t, err)

	sent := 0
	failingSend := func(event any) error {
		sent++
		if sent > 1 {
			return errors.New("client disconnected")
		}
		f.events = append(f.events, event)
		return nil
	}

	require.NoError(t, f.service.Stream(context.Background(), turn, failingSend))

	// only the first write got through, but the title was still persisted
	assert.Len(t, f.events, 1)
	assert.Equal(t, 2, sent)
	assert.Equal(t, "勾股定理", f.conversations.persistedTitle)
	assert.True(t, stream.closed)
}

func TestStreamPropagatesUpstreamError(t *testing.T) {
	stream := &fakeStream{snapshots: []string{"部分"}, err: errors.New("upstream reset")}
	f := newChatFixture(stream, "已命名会话")

	turn, err := f.service.Prepare(context.Background(), uuid.New(), uuid.New(), "question")
	require.NoError(t, err)

	err = f.service.Stream(context.Background(), turn, f.send)
	assert.ErrorContains(t, err, "upstream reset")
	assert.True(t, stream.closed)
}
