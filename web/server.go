package web

import (
	"context"
	"net/http"

	"cartilha-backend/config"
	"cartilha-backend/database"
	"cartilha-backend/llmclient"
	"cartilha-backend/rag"
	"cartilha-backend/similarity"
	"cartilha-backend/validate"
	"cartilha-backend/web/handlers"
	"cartilha-backend/web/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
	config *config.Config
}

func NewServer(cfg *config.Config, store *database.PostgresStore, search *database.SearchService, llm *llmclient.Client, logger *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		// Add logger to context
		c.Set("logger", logger)
		c.Next()
	})

	server := &Server{
		router: router,
		logger: logger,
		config: cfg,
	}

	limiter, err := middleware.NewClientRateLimiter(
		cfg.RateLimitMessagesPerMin, cfg.RateLimitBurstSize, cfg.RateLimitCacheSize, logger)
	if err != nil {
		return nil, err
	}

	pipeline := rag.New(cfg, search, logger)
	finder := similarity.NewFinder(cfg, store, logger)
	validator := validate.NewValidator(store, logger)

	chatHandler := handlers.NewChatHandler(pipeline, llm, logger)
	adminHandler := handlers.NewAdminHandler(finder, validator, store, search, logger)
	publicHandler := handlers.NewPublicHandler(store, logger)

	api := router.Group("/api")
	api.POST("/chat", middleware.RateLimitMiddleware(limiter, logger), chatHandler.SendMessage)
	api.GET("/countries", publicHandler.ListCountries)
	api.GET("/countries/stats", publicHandler.CountryStats)
	api.GET("/countries/:code/cartilha", publicHandler.CountryCartilha)
	api.GET("/categories", publicHandler.ListCategories)
	api.GET("/compare", publicHandler.Compare)

	admin := api.Group("/admin")
	admin.POST("/check-similarity", adminHandler.CheckSimilarity)
	admin.POST("/validate-entry", adminHandler.ValidateEntry)
	admin.GET("/entries", adminHandler.ListEntries)
	admin.POST("/entries", adminHandler.CreateEntry)
	admin.GET("/entries/:id", adminHandler.GetEntry)
	admin.PUT("/entries/:id", adminHandler.UpdateEntry)
	admin.DELETE("/entries/:id", adminHandler.DeleteEntry)
	admin.GET("/moderation", adminHandler.ListModeration)
	admin.PATCH("/moderation/:id", adminHandler.Moderate)
	admin.GET("/standard-topics", adminHandler.ListStandardTopics)
	admin.PUT("/standard-topics", adminHandler.UpsertStandardTopic)

	return server, nil
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
