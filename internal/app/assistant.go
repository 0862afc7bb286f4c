package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/lifeassist-go/internal/domain"
	"github.com/randomtoy/lifeassist-go/internal/observability"
	"github.com/randomtoy/lifeassist-go/internal/ports"
)

// GenerateRequest is the application-level input (no HTTP types).
type GenerateRequest struct {
	Kind      domain.RequestKind
	Selection domain.Selection
	Stream    bool
}

// GenerateResponse is the application-level output.
type GenerateResponse struct {
	Entry     domain.HistoryEntry
	LatencyMS int64
	// Partial holds the text shown before a mid-stream failure.
	Partial string
}

// Assistant turns a selection into a prompt, relays the model's reply and
// records finished replies in the session history.
type Assistant struct {
	catalog    ports.CatalogStore
	connector  ports.ChatConnector
	credential string
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewAssistant wires the service. credential is the process-wide API key
// from the environment and may be empty; sessions can then supply their own.
func NewAssistant(cs ports.CatalogStore, conn ports.ChatConnector, credential string, logger *slog.Logger) *Assistant {
	return &Assistant{
		catalog:    cs,
		connector:  conn,
		credential: credential,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Catalog returns the selector values.
func (a *Assistant) Catalog(ctx context.Context) (domain.Catalog, error) {
	c, err := a.catalog.GetCatalog(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("get catalog: %w", err)
	}
	return c, nil
}

// Locked reports whether sess still lacks a credential.
func (a *Assistant) Locked(sess *domain.SessionState) bool {
	return a.credentialFor(sess) == ""
}

// SetCredential stores a user-supplied API key on sess.
func (a *Assistant) SetCredential(sess *domain.SessionState, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrMissingCredential
	}
	sess.SetCredential(key)
	a.logger.Info("session credential supplied", "session_id", sess.ID)
	return nil
}

// ClearHistory empties the session's history.
func (a *Assistant) ClearHistory(sess *domain.SessionState) {
	n := sess.History.Len()
	sess.History.Clear()
	a.logger.Info("history cleared", "session_id", sess.ID, "entries", n)
}

// Generate runs one content-generation action for sess. In stream mode every
// fragment is passed to display as it arrives; in buffered mode display is
// called once with the whole reply. A history entry is appended only when
// the reply completes.
func (a *Assistant) Generate(ctx context.Context, sess *domain.SessionState, req GenerateRequest, display Display) (GenerateResponse, error) {
	key := a.credentialFor(sess)
	if key == "" {
		return GenerateResponse{}, domain.ErrMissingCredential
	}

	cat, err := a.Catalog(ctx)
	if err != nil {
		return GenerateResponse{}, err
	}
	if err := cat.Validate(req.Selection); err != nil {
		return GenerateResponse{}, err
	}

	prompt, err := domain.BuildPrompt(req.Kind, req.Selection)
	if err != nil {
		return GenerateResponse{}, err
	}

	log := observability.LoggerFromContext(ctx, a.logger).With("session_id", sess.ID, "kind", req.Kind, "stream", req.Stream)

	client, err := a.connector.Connect(ctx, key)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("connect: %w", err)
	}

	start := time.Now()
	var text string
	if req.Stream {
		text, err = Relay(client.Stream(ctx, prompt), display)
	} else {
		text, err = client.Complete(ctx, prompt)
		if err == nil && display != nil {
			err = display(text, text)
		}
	}
	latency := time.Since(start).Milliseconds()

	if err != nil {
		log.Warn("generation failed", "error", err, "partial_chars", len(text), "latency_ms", latency)
		if !errors.Is(err, domain.ErrRequestFailure) && !errors.Is(err, context.Canceled) {
			err = fmt.Errorf("%w: %w", domain.ErrRequestFailure, err)
		}
		return GenerateResponse{Partial: text, LatencyMS: latency}, err
	}

	entry := domain.HistoryEntry{
		ID:        a.newID(),
		Kind:      req.Kind,
		Prompt:    prompt,
		Response:  text,
		Timestamp: a.now().Format(domain.TimestampLayout),
	}
	sess.History.Append(entry)

	log.Info("generation finished", "entry_id", entry.ID, "chars", len(text), "latency_ms", latency)

	return GenerateResponse{Entry: entry, LatencyMS: latency}, nil
}

func (a *Assistant) credentialFor(sess *domain.SessionState) string {
	if a.credential != "" {
		return a.credential
	}
	if sess == nil {
		return ""
	}
	return sess.Credential()
}
