package llmclient

import (
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestToOpenAIPreservesRolesAndOrder(t *testing.T) {
	messages := []Message{
		{Role: RoleSystem, Content: "你是学习助手"},
		{Role: RoleUser, Content: "勾股定理是什么"},
	}

	converted := toOpenAI(messages)

	assert.Equal(t, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "你是学习助手"},
		{Role: openai.ChatMessageRoleUser, Content: "勾股定理是什么"},
	}, converted)
}

func TestRecordWithoutRecorderIsNoOp(t *testing.T) {
	c := &Client{model: "test-model"}

	now := time.Now()
	c.record([]Message{{Role: RoleUser, Content: "问题"}}, "回答", now, now, openai.Usage{}, nil)
}

func TestStreamFinishRecordsOnlyOnce(t *testing.T) {
	s := &Stream{client: &Client{model: "test-model"}, requestedAt: time.Now()}

	s.finish(nil)
	s.finish(nil)

	assert.True(t, s.recorded)
}
