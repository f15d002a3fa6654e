package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/the-beginners-2025/backend-go/cmd/api/clients/ragclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/logger"
	"github.com/the-beginners-2025/backend-go/models"
	"github.com/the-beginners-2025/backend-go/repositories"
)

// ConversationService manages the local conversation records and the
// engine-side session mirrored to each of them.
type ConversationService struct {
	conversations *repositories.ConversationRepository
	statistics    *repositories.UserStatisticsRepository
	rag           *ragclient.Client
}

func NewConversationService(conversations *repositories.ConversationRepository, statistics *repositories.UserStatisticsRepository, rag *ragclient.Client) *ConversationService {
	return &ConversationService{conversations: conversations, statistics: statistics, rag: rag}
}

func conversationToDTO(conv models.Conversation) dto.ConversationDTO {
	return dto.ConversationDTO{
		ID:        conv.ID.String(),
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt.Format(time.RFC3339),
		UpdatedAt: conv.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *ConversationService) List(ctx context.Context, userID uuid.UUID) ([]dto.ConversationDTO, error) {
	conversations, err := s.conversations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ConversationDTO, 0, len(conversations))
	for _, conv := range conversations {
		result = append(result, conversationToDTO(conv))
	}
	return result, nil
}

// Create inserts the local record, mirrors a session on the engine
// and counts the conversation against the user's statistics.
func (s *ConversationService) Create(ctx context.Context, userID uuid.UUID) (dto.ConversationDTO, error) {
	now := time.Now().UTC()
	conv := models.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     models.DefaultConversationTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return dto.ConversationDTO{}, err
	}
	if err := s.rag.CreateSession(ctx, userID.String(), conv.ID.String()); err != nil {
		// roll the local record back so the two stores stay aligned
		if delErr := s.conversations.Delete(ctx, conv.ID, userID); delErr != nil {
			logger.ErrorWithFields("failed to roll back conversation after session error", logger.Fields{
				"conversation_id": conv.ID.String(),
				"error":           delErr.Error(),
			})
		}
		return dto.ConversationDTO{}, err
	}

	if err := s.statistics.IncrementConversation(ctx, userID); err != nil {
		logger.ErrorWithFields("failed to count conversation", logger.Fields{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}
	return conversationToDTO(conv), nil
}

// Get returns the conversation with its full message history from the
// engine session.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID uuid.UUID) (dto.ConversationDetailDTO, error) {
	conv, err := s.conversations.FindByIDAndUser(ctx, conversationID, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return dto.ConversationDetailDTO{}, ErrNotFound
	}
	if err != nil {
		return dto.ConversationDetailDTO{}, err
	}

	messages, err := s.rag.SessionMessages(ctx, userID.String(), conversationID.String())
	if err != nil && !errors.Is(err, ragclient.ErrSessionNotFound) {
		return dto.ConversationDetailDTO{}, err
	}

	detail := dto.ConversationDetailDTO{
		ConversationDTO: conversationToDTO(conv),
		Messages:        make([]dto.MessageDTO, 0, len(messages)),
	}
	for _, msg := range messages {
		references := make([]dto.ReferenceChunkDTO, 0, len(msg.References))
		for _, ref := range msg.References {
			references = append(references, dto.ReferenceChunkDTO{
				ID:           ref.ID,
				Content:      ref.Content,
				DatasetID:    ref.DatasetID,
				DocumentID:   ref.DocumentID,
				DocumentName: ref.DocumentName,
			})
		}
		detail.Messages = append(detail.Messages, dto.MessageDTO{
			Role:       msg.Role,
			Content:    msg.Content,
			References: references,
		})
	}
	return detail, nil
}

// Delete removes the conversation and its engine session, returning
// the user's remaining conversations.
func (s *ConversationService) Delete(ctx context.Context, userID, conversationID uuid.UUID) ([]dto.ConversationDTO, error) {
	if _, err := s.conversations.FindByIDAndUser(ctx, conversationID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.rag.DeleteSession(ctx, userID.String(), conversationID.String()); err != nil && !errors.Is(err, ragclient.ErrSessionNotFound) {
		return nil, err
	}
	if err := s.conversations.Delete(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}
