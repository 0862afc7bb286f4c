package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/randomtoy/lifeassist-go/internal/adapters/catalog"
	"github.com/randomtoy/lifeassist-go/internal/adapters/llm"
	"github.com/randomtoy/lifeassist-go/internal/app"
	"github.com/randomtoy/lifeassist-go/internal/config"
	"github.com/randomtoy/lifeassist-go/internal/domain"
	"github.com/randomtoy/lifeassist-go/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; logs go to a file only when asked.
	var logOut io.Writer = io.Discard
	if path := os.Getenv("LIFEASSIST_LOG"); path != "" {
		f, err := tea.LogToFile(path, "lifeassist")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	connector, err := llm.NewConnector(cfg, llm.NewHTTPClient(cfg.LLMTimeout), logger)
	if err != nil {
		return err
	}

	store := catalog.NewEmbeddedStore()
	svc := app.NewAssistant(store, connector, cfg.APIKey, logger)

	ctx := context.Background()
	cat, err := svc.Catalog(ctx)
	if err != nil {
		return err
	}

	sess := domain.NewSessionState(uuid.Must(uuid.NewV7()).String(), time.Now())
	logger.Info("terminal session started", "session_id", sess.ID, "provider", cfg.LLMProvider, "model", cfg.LLMModel)

	p := tea.NewProgram(tui.NewModel(ctx, svc, sess, cat, cfg.LLMStream), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
