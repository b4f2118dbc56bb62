package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/reviewradar/config"
	"github.com/spacesedan/reviewradar/internal/analyzer"
	"github.com/spacesedan/reviewradar/internal/api"
	"github.com/spacesedan/reviewradar/internal/clients"
	"github.com/spacesedan/reviewradar/internal/history"
	"github.com/spacesedan/reviewradar/internal/logging"
	"github.com/spacesedan/reviewradar/internal/sentiment"
	"github.com/spacesedan/reviewradar/internal/service"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	clients.InitValkey()
	defer clients.CloseValkey()

	classifier := sentiment.FromEnvironment()
	store := history.NewStore()
	svc := service.NewAnalysisService(
		clients.GetPlayStoreClient(),
		classifier,
		store,
		config.GetInt("REVIEW_BATCH_SIZE", clients.DEFAULT_REVIEW_COUNT),
		config.GetInt("SENTIMENT_CONCURRENCY", analyzer.DefaultConcurrency),
	)

	addr := ":" + config.GetString("PORT", "8000")
	server := api.NewServer(addr, api.NewHandler(svc))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		slog.Error("[Main] Server exited with error",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
