package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/the-beginners-2025/backend-go/cmd/api/services"
	"github.com/the-beginners-2025/backend-go/logger"
)

// AdminStatusHandler godoc
// @Summary      Component reachability summary
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SystemStatusDTO
// @Failure      403  {object}  dto.ErrorResponseDTO
// @Router       /admin/status [get]
func AdminStatusHandler(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Status(c.Request.Context()))
	}
}

// AdminKnowledgeStatusHandler godoc
// @Summary      Knowledge engine component status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  object
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /admin/status/knowledge [get]
func AdminKnowledgeStatusHandler(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := svc.KnowledgeStatus(c.Request.Context())
		if err != nil {
			logger.ErrorWithFields("knowledge status probe failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "knowledge_status_unavailable"})
			return
		}
		c.Data(http.StatusOK, "application/json", status)
	}
}

// AdminPostgresStatusHandler godoc
// @Summary      Detailed database status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PostgresStatusDTO
// @Failure      503  {object}  dto.ErrorResponseDTO
// @Router       /admin/status/postgres [get]
func AdminPostgresStatusHandler(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := svc.PostgresStatus(c.Request.Context())
		if err != nil {
			logger.ErrorWithFields("postgres status probe failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database_unavailable"})
			return
		}
		c.JSON(http.StatusOK, status)
	}
}
