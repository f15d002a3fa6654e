package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/cmd/api/middleware"
	"github.com/the-beginners-2025/backend-go/cmd/api/services"
	"github.com/the-beginners-2025/backend-go/cmd/api/sse"
	"github.com/the-beginners-2025/backend-go/logger"
	"github.com/the-beginners-2025/backend-go/repositories"
)

// ListConversationsHandler godoc
// @Summary      List the caller's conversations
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.ConversationDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /conversations [get]
func ListConversationsHandler(svc *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		conversations, err := svc.List(c.Request.Context(), user.ID)
		if err != nil {
			logger.ErrorWithFields("conversation listing failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, conversations)
	}
}

// CreateConversationHandler godoc
// @Summary      Create a conversation
// @Description  Creates the local record and mirrors a chat session on the knowledge engine.
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ConversationDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /conversations [post]
func CreateConversationHandler(svc *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		conversation, err := svc.Create(c.Request.Context(), user.ID)
		if err != nil {
			logger.ErrorWithFields("conversation creation failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, conversation)
	}
}

// GetConversationHandler godoc
// @Summary      Conversation detail with message history
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Param        conversation_id  path  string  true  "conversation id"
// @Success      200  {object}  dto.ConversationDetailDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /conversations/{conversation_id} [get]
func GetConversationHandler(svc *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		conversationID, err := uuid.Parse(c.Param("conversation_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_conversation_id"})
			return
		}

		detail, err := svc.Get(c.Request.Context(), user.ID, conversationID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "conversation_not_found"})
				return
			}
			logger.ErrorWithFields("conversation lookup failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// DeleteConversationHandler godoc
// @Summary      Delete a conversation
// @Description  Removes the conversation and its engine session, returning the remaining list.
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Param        conversation_id  path  string  true  "conversation id"
// @Success      200  {array}  dto.ConversationDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /conversations/{conversation_id} [delete]
func DeleteConversationHandler(svc *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		conversationID, err := uuid.Parse(c.Param("conversation_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_conversation_id"})
			return
		}

		remaining, err := svc.Delete(c.Request.Context(), user.ID, conversationID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "conversation_not_found"})
				return
			}
			logger.ErrorWithFields("conversation deletion failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, remaining)
	}
}

// ChatHandler godoc
// @Summary      Stream one chat turn
// @Description  Streams the answer as SSE: content slices, then finish with references, then related questions, then a title on the first turn.
// @Tags         conversations
// @Accept       json
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        conversation_id  path  string              true  "conversation id"
// @Param        body             body  dto.ChatRequestDTO  true  "question"
// @Success      200  {string}  string  "SSE stream"
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /conversations/{conversation_id}/chat [post]
func ChatHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		conversationID, err := uuid.Parse(c.Param("conversation_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_conversation_id"})
			return
		}

		var req dto.ChatRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "question_cannot_be_empty"})
			return
		}

		// Validation happens before any SSE byte so failures are
		// still plain HTTP errors.
		turn, err := svc.Prepare(c.Request.Context(), user.ID, conversationID, req.Question)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyQuestion):
				c.JSON(http.StatusBadRequest, gin.H{"error": "question_cannot_be_empty"})
			case errors.Is(err, services.ErrNotFound), errors.Is(err, repositories.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "conversation_not_found"})
			default:
				logger.ErrorWithFields("chat preparation failed", logger.Fields{"error": err.Error()})
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			}
			return
		}

		writer, err := sse.NewWriter(c.Writer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming_unsupported"})
			return
		}

		if err := svc.Stream(c.Request.Context(), turn, writer.Send); err != nil {
			// the stream is already open; log and close the transport
			logger.ErrorWithFields("chat stream aborted", logger.Fields{
				"conversation_id": conversationID.String(),
				"error":           err.Error(),
			})
		}
	}
}
