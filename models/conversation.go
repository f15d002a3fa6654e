package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultConversationTitle is the placeholder title a conversation
// carries until the first chat turn generates a real one.
const DefaultConversationTitle = "新会话"

// Conversation is the locally persisted half of a chat conversation.
// Message history lives in the knowledge service session mirror keyed
// by "<user_id>:<conversation_id>".
type Conversation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
