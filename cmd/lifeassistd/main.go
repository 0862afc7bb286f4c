package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/randomtoy/lifeassist-go/internal/adapters/catalog"
	httpadapter "github.com/randomtoy/lifeassist-go/internal/adapters/http"
	"github.com/randomtoy/lifeassist-go/internal/adapters/llm"
	"github.com/randomtoy/lifeassist-go/internal/adapters/sessions"
	"github.com/randomtoy/lifeassist-go/internal/app"
	"github.com/randomtoy/lifeassist-go/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	connector, err := llm.NewConnector(cfg, llm.NewHTTPClient(cfg.LLMTimeout), logger)
	if err != nil {
		logger.Error("failed to build chat connector", "error", err)
		os.Exit(1)
	}

	svc := app.NewAssistant(catalog.NewEmbeddedStore(), connector, cfg.APIKey, logger)
	if cfg.APIKey == "" {
		logger.Warn("no API key configured; sessions must supply one", "provider", cfg.LLMProvider)
	}

	handler, err := httpadapter.NewHandler(svc, cfg.LLMStream, logger)
	if err != nil {
		logger.Error("failed to build handler", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))
	e.Use(httpadapter.SessionMiddleware(sessions.NewMemoryStore(cfg.SessionTTL, cfg.SessionMax), logger))

	handler.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server",
			"addr", cfg.HTTPAddr,
			"provider", cfg.LLMProvider,
			"model", cfg.LLMModel,
			"stream", cfg.LLMStream,
		)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
