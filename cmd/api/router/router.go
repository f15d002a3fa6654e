package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/the-beginners-2025/backend-go/cmd/api/auth"
	"github.com/the-beginners-2025/backend-go/cmd/api/handlers"
	"github.com/the-beginners-2025/backend-go/cmd/api/middleware"
	"github.com/the-beginners-2025/backend-go/cmd/api/services"
	_ "github.com/the-beginners-2025/backend-go/docs"
	"github.com/the-beginners-2025/backend-go/repositories"
)

// Pinger reports database liveness for the health endpoint.
// *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies carries the constructed services the routes close over.
type Dependencies struct {
	DB            Pinger
	JWT           *auth.JWTManager
	Users         *repositories.UserRepository
	Auth          *services.AuthService
	Conversations *services.ConversationService
	Chat          *services.ChatService
	Knowledge     *services.KnowledgeService
	OCR           *services.OCRService
	Diagrams      *services.DiagramService
	Admin         *services.AdminService
}

func New(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTrace())

	r.GET("/health", func(c *gin.Context) {
		if err := deps.DB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", handlers.RegisterHandler(deps.Auth))
		authGroup.POST("/login", handlers.LoginHandler(deps.Auth))

		authed := authGroup.Group("", middleware.Auth(deps.JWT, deps.Users))
		authed.GET("/me", handlers.MeHandler(deps.Auth))
		authed.PUT("/me", handlers.UpdateMeHandler(deps.Auth))
		authed.GET("/statistics", handlers.StatisticsHandler(deps.Auth))
		authed.GET("", middleware.AdminOnly(), handlers.AllUsersHandler(deps.Auth))
	}

	conversations := r.Group("/conversations", middleware.Auth(deps.JWT, deps.Users))
	{
		conversations.GET("", handlers.ListConversationsHandler(deps.Conversations))
		conversations.POST("", handlers.CreateConversationHandler(deps.Conversations))
		conversations.GET("/:conversation_id", handlers.GetConversationHandler(deps.Conversations))
		conversations.DELETE("/:conversation_id", handlers.DeleteConversationHandler(deps.Conversations))
		conversations.POST("/:conversation_id/chat", handlers.ChatHandler(deps.Chat))
	}

	knowledge := r.Group("/knowledge", middleware.Auth(deps.JWT, deps.Users))
	{
		knowledge.GET("", handlers.ListDatasetsHandler(deps.Knowledge))
		knowledge.GET("/graph", handlers.GraphHandler(deps.Knowledge))
		knowledge.POST("/retrieval", handlers.RetrievalHandler(deps.Knowledge))
		knowledge.GET("/:dataset_id", handlers.ListDocumentsHandler(deps.Knowledge))
		knowledge.GET("/:dataset_id/:document_id", handlers.ListChunksHandler(deps.Knowledge))
	}

	ocr := r.Group("/ocr", middleware.Auth(deps.JWT, deps.Users))
	{
		ocr.POST("/normal", handlers.NormalOCRHandler(deps.OCR))
		ocr.POST("/turbo", handlers.TurboOCRHandler(deps.OCR))
	}

	diagrams := r.Group("/diagrams", middleware.Auth(deps.JWT, deps.Users))
	{
		diagrams.POST("/mindmap", handlers.MindmapHandler(deps.Diagrams))
		diagrams.POST("/flowchart", handlers.FlowchartHandler(deps.Diagrams))
	}

	admin := r.Group("/admin", middleware.Auth(deps.JWT, deps.Users), middleware.AdminOnly())
	{
		admin.GET("/status", handlers.AdminStatusHandler(deps.Admin))
		admin.GET("/status/knowledge", handlers.AdminKnowledgeStatusHandler(deps.Admin))
		admin.GET("/status/postgres", handlers.AdminPostgresStatusHandler(deps.Admin))
	}

	return r
}
