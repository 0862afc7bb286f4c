package gemini

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"google.golang.org/genai"

	"github.com/randomtoy/lifeassist-go/internal/adapters/llm/idle"
	"github.com/randomtoy/lifeassist-go/internal/domain"
	"github.com/randomtoy/lifeassist-go/internal/ports"
)

// Client implements ports.ChatClient with the Gemini API.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	idleTimeout time.Duration
	logger      *slog.Logger
}

func (c *Client) config() *genai.GenerateContentConfig {
	temp := c.temperature
	return &genai.GenerateContentConfig{
		Temperature: &temp,
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config())
	if err != nil {
		return "", c.fail(ctx, fmt.Errorf("generate content: %w", err))
	}

	text := res.Text()
	if text == "" {
		return "", c.fail(ctx, fmt.Errorf("gemini returned empty text"))
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	var used atomic.Bool

	return func(yield func(string, error) bool) {
		if used.Swap(true) {
			yield("", fmt.Errorf("%w: stream already consumed", domain.ErrRequestFailure))
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		watchdog := idle.NewWatchdog(c.idleTimeout, cancel)
		defer watchdog.Stop()

		for res, err := range c.client.Models.GenerateContentStream(ctx, c.model, genai.Text(prompt), c.config()) {
			if err != nil {
				yield("", c.fail(ctx, watchdog.Wrap(fmt.Errorf("generate content stream: %w", err))))
				return
			}
			watchdog.Reset()
			if frag := fragmentText(res); frag != "" {
				if !yield(frag, nil) {
					return
				}
				watchdog.Reset()
			}
		}
	}
}

// fragmentText joins the text parts of the first candidate. Blocked or
// empty chunks yield "".
func fragmentText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func (c *Client) fail(ctx context.Context, err error) error {
	c.logger.WarnContext(ctx, "gemini request failed", "model", c.model, "error", err)
	return fmt.Errorf("%w: %w", domain.ErrRequestFailure, err)
}

// Connector builds a fresh genai.Client on every Connect over a shared
// HTTP client.
type Connector struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	temperature float32
	idleTimeout time.Duration
	logger      *slog.Logger
}

// NewConnector builds a Connector. An empty baseURL keeps the SDK's endpoint.
func NewConnector(httpClient *http.Client, baseURL, model string, temperature float64, idleTimeout time.Duration, logger *slog.Logger) *Connector {
	return &Connector{
		httpClient:  httpClient,
		baseURL:     baseURL,
		model:       model,
		temperature: float32(temperature),
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

func (c *Connector) Connect(ctx context.Context, apiKey string) (ports.ChatClient, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingCredential
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %w", domain.ErrRequestFailure, err)
	}

	return &Client{
		client:      gc,
		model:       c.model,
		temperature: c.temperature,
		idleTimeout: c.idleTimeout,
		logger:      c.logger,
	}, nil
}
