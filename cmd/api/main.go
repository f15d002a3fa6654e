package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/cors"

	"github.com/the-beginners-2025/backend-go/cmd/api/auth"
	"github.com/the-beginners-2025/backend-go/cmd/api/clients/graphclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/clients/llmclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/clients/ocrclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/clients/ragclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/router"
	"github.com/the-beginners-2025/backend-go/cmd/api/services"
	"github.com/the-beginners-2025/backend-go/config"
	"github.com/the-beginners-2025/backend-go/db"
	"github.com/the-beginners-2025/backend-go/logger"
	"github.com/the-beginners-2025/backend-go/repositories"
)

// @title           Learning Assistant API
// @version         1.0
// @description     Authenticated gateway for knowledge base chat, retrieval, OCR and diagrams
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level)

	ctx := context.Background()

	pg, err := db.OpenPostgres(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		logger.Log.Errorf("failed to open postgres: %v", err)
		os.Exit(1)
	}
	defer pg.Close()

	users := repositories.NewUserRepository(pg)
	conversations := repositories.NewConversationRepository(pg)
	statistics := repositories.NewUserStatisticsRepository(pg)

	// Mongo only backs the AI call log; the service runs without it.
	var usageRecorder llmclient.UsageRecorder
	if cfg.Store.MongoURI != "" {
		mongoDB, err := db.OpenMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDBName)
		if err != nil {
			logger.Log.Errorf("failed to open mongo: %v", err)
			os.Exit(1)
		}
		usageRecorder = repositories.NewAILogRepository(mongoDB)
	} else {
		logger.Log.Info("MONGO_URI not set; ai call logging disabled")
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT.Secret)
	if err != nil {
		logger.Log.Errorf("failed to init jwt manager: %v", err)
		os.Exit(1)
	}

	rag := ragclient.New(cfg.RAG.Endpoint, cfg.RAG.Token, cfg.RAG.ChatID)
	llm := llmclient.New(cfg.LLM.Endpoint, cfg.LLM.Token, cfg.LLM.Model, usageRecorder)
	ocr := ocrclient.New(cfg.OCR.Endpoint, cfg.OCR.Token)
	graph := graphclient.New(cfg.GraphURL)

	deps := router.Dependencies{
		DB:            pg,
		JWT:           jwtManager,
		Users:         users,
		Auth:          services.NewAuthService(users, statistics, jwtManager),
		Conversations: services.NewConversationService(conversations, statistics, rag),
		Chat: services.NewChatService(conversations,
			func(ctx context.Context, userID, conversationID, question string) (services.ContentStream, error) {
				return rag.Chat(ctx, userID, conversationID, question)
			},
			llm.Chat,
		),
		Knowledge: services.NewKnowledgeService(rag, graph, statistics),
		OCR:       services.NewOCRService(ocr, statistics),
		Diagrams:  services.NewDiagramService(llm, statistics),
		Admin:     services.NewAdminService(pg, rag, cfg.RAG.Authorization),
	}

	engine := router.New(deps)

	// The web client is served from another origin; allow everything
	// the way the product always has.
	handler := cors.AllowAll().Handler(engine)

	logger.Log.Infof("listening on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil && err != http.ErrServerClosed {
		logger.Log.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
