package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/cmd/api/middleware"
	"github.com/the-beginners-2025/backend-go/cmd/api/services"
	"github.com/the-beginners-2025/backend-go/cmd/api/sse"
	"github.com/the-beginners-2025/backend-go/logger"
)

// MindmapHandler godoc
// @Summary      Generate a mind map from a question/answer pair
// @Tags         diagrams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.DiagramRequestDTO  true  "question and answer"
// @Success      200  {object}  dto.MindmapResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /diagrams/mindmap [post]
func MindmapHandler(svc *services.DiagramService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		var req dto.DiagramRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body"})
			return
		}

		resp, err := svc.Mindmap(c.Request.Context(), user.ID, req)
		if err != nil {
			logger.ErrorWithFields("mindmap generation failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// FlowchartHandler godoc
// @Summary      Stream a flowchart description
// @Description  Streams the model's flowchart output as SSE events of the form {"content": "..."}.
// @Tags         diagrams
// @Accept       json
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        body  body  dto.DiagramRequestDTO  true  "question and answer"
// @Success      200  {string}  string  "SSE stream"
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /diagrams/flowchart [post]
func FlowchartHandler(svc *services.DiagramService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		var req dto.DiagramRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body"})
			return
		}

		writer, err := sse.NewWriter(c.Writer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming_unsupported"})
			return
		}

		err = svc.Flowchart(c.Request.Context(), user.ID, req, func(content string) error {
			return writer.Send(gin.H{"content": content})
		})
		if err != nil {
			logger.ErrorWithFields("flowchart stream aborted", logger.Fields{"error": err.Error()})
		}
	}
}
