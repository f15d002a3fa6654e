package models

import "github.com/google/uuid"

// UserStatistics tracks per-user feature usage counters. One row is
// created alongside each user at registration.
type UserStatistics struct {
	UserID                   uuid.UUID
	KnowledgeBaseSearchCount int
	OCRRecognitionCount      int
	ConversationCount        int
	FlowChartCount           int
	MindMapCount             int
}
