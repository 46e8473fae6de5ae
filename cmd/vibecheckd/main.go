package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	httpadapter "github.com/randomtoy/vibecheck/internal/adapters/http"
	"github.com/randomtoy/vibecheck/internal/adapters/llm/mistral"
	"github.com/randomtoy/vibecheck/internal/adapters/styles"
	"github.com/randomtoy/vibecheck/internal/app"
	"github.com/randomtoy/vibecheck/internal/config"
	"github.com/randomtoy/vibecheck/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	profile, err := cfg.Profile(config.ProfileInteractive)
	if err != nil {
		logger.Error("failed to select profile", "error", err)
		os.Exit(1)
	}

	styleStore := styles.NewEmbeddedStore()
	if _, err := styleStore.Catalog(context.Background()); err != nil {
		logger.Error("invalid style catalog", "error", err)
		os.Exit(1)
	}

	llmClient := mistral.NewClient(
		&http.Client{Timeout: cfg.LLMTimeout},
		cfg.MistralAPIKey,
		cfg.MistralBaseURL,
		logger,
	)

	svc := app.NewExplainService(styleStore, llmClient, domain.StdRNG{}, profile)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	handler := httpadapter.NewHandler(svc, httpadapter.Timing{
		SpinDuration: cfg.SpinDuration,
		SpinSettle:   cfg.SpinSettle,
	})
	handler.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logger.Info("starting server",
			"addr", cfg.HTTPAddr,
			"model", profile.Model,
			"max_tokens", profile.MaxTokens,
		)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
