package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/cmd/api/middleware"
	"github.com/the-beginners-2025/backend-go/cmd/api/services"
	"github.com/the-beginners-2025/backend-go/logger"
)

// ListDatasetsHandler godoc
// @Summary      List knowledge bases
// @Tags         knowledge
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DatasetsResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /knowledge [get]
func ListDatasetsHandler(svc *services.KnowledgeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := svc.Datasets(c.Request.Context())
		if err != nil {
			logger.ErrorWithFields("dataset listing failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GraphHandler godoc
// @Summary      Knowledge graph neighborhood
// @Tags         knowledge
// @Produce      json
// @Security     BearerAuth
// @Param        label      query  string  true   "center entity label"
// @Param        max_depth  query  int     false  "traversal depth"  default(3)
// @Param        max_nodes  query  int     false  "node budget"      default(100)
// @Success      200  {object}  dto.GraphResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /knowledge/graph [get]
func GraphHandler(svc *services.KnowledgeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		label := c.Query("label")
		if label == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "label_required"})
			return
		}
		maxDepth, _ := strconv.Atoi(c.DefaultQuery("max_depth", "3"))
		maxNodes, _ := strconv.Atoi(c.DefaultQuery("max_nodes", "100"))

		resp, err := svc.Graph(c.Request.Context(), label, maxDepth, maxNodes)
		if err != nil {
			logger.ErrorWithFields("graph fetch failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// RetrievalHandler godoc
// @Summary      Semantic retrieval over knowledge bases
// @Tags         knowledge
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RetrievalRequestDTO  true  "retrieval parameters"
// @Success      200  {object}  dto.RetrievalResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /knowledge/retrieval [post]
func RetrievalHandler(svc *services.KnowledgeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		var req dto.RetrievalRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body"})
			return
		}

		resp, err := svc.Retrieve(c.Request.Context(), user.ID, req)
		if err != nil {
			logger.ErrorWithFields("retrieval failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ListDocumentsHandler godoc
// @Summary      List documents in a knowledge base
// @Tags         knowledge
// @Produce      json
// @Security     BearerAuth
// @Param        dataset_id  path   string  true   "dataset id"
// @Param        page        query  int     false  "page"       default(1)
// @Param        page_size   query  int     false  "page size"  default(10)
// @Success      200  {object}  dto.DocumentsResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /knowledge/{dataset_id} [get]
func ListDocumentsHandler(svc *services.KnowledgeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

		resp, err := svc.Documents(c.Request.Context(), c.Param("dataset_id"), page, pageSize)
		if err != nil {
			logger.ErrorWithFields("document listing failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ListChunksHandler godoc
// @Summary      List chunks of a document
// @Tags         knowledge
// @Produce      json
// @Security     BearerAuth
// @Param        dataset_id   path   string  true   "dataset id"
// @Param        document_id  path   string  true   "document id"
// @Param        page         query  int     false  "page"       default(1)
// @Param        page_size    query  int     false  "page size"  default(10)
// @Success      200  {object}  dto.ChunksResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /knowledge/{dataset_id}/{document_id} [get]
func ListChunksHandler(svc *services.KnowledgeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

		resp, err := svc.Chunks(c.Request.Context(), c.Param("dataset_id"), c.Param("document_id"), page, pageSize)
		if err != nil {
			logger.ErrorWithFields("chunk listing failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
