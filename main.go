package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cartilha-backend/config"
	"cartilha-backend/database"
	"cartilha-backend/llmclient"
	"cartilha-backend/web"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	store, err := database.NewPostgresStore(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	llm := llmclient.New(cfg, logger)
	if !llm.Configured() {
		logger.Warn("No completion API key configured, chat will answer from retrieved entries only")
	}

	// The embedding host is optional; the hybrid search function ranks
	// lexically when no embedder is available.
	var embedder database.Embedder
	if cfg.EmbeddingLLMHost != "" {
		embedder = llm
	}
	search := database.NewSearchService(store, embedder, logger)

	server, err := web.NewServer(cfg, store, search, llm, logger)
	if err != nil {
		logger.Fatal("Failed to initialize web server", zap.Error(err))
	}

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.Start(ctx, cfg.ServerAddress); err != nil {
		logger.Error("Server shutdown with error", zap.Error(err))
	}
}
