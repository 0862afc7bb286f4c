package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/randomtoy/lifeassist-go/internal/adapters/llm/idle"
	"github.com/randomtoy/lifeassist-go/internal/domain"
	"github.com/randomtoy/lifeassist-go/internal/ports"
)

// errStreamConsumed is returned when a fragment sequence is ranged twice.
var errStreamConsumed = errors.New("stream already consumed")

// maxErrorBody caps how much of a failed upstream response is kept.
const maxErrorBody = 4 << 10

// Client implements ports.ChatClient against an OpenAI-compatible
// /chat/completions endpoint (DeepSeek by default).
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	// idleTimeout bounds the wait for each streamed line; 0 disables it.
	idleTimeout time.Duration
	logger      *slog.Logger
}

func NewClient(httpClient *http.Client, apiKey, baseURL, model string, temperature float64, idleTimeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: temperature,
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

// chatRequest / chatResponse mirror the OpenAI-compatible API shapes.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := c.post(ctx, prompt, false)
	if err != nil {
		return "", c.fail(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(ctx, fmt.Errorf("read response: %w", err))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", c.fail(ctx, fmt.Errorf("decode response: %w", err))
	}
	if chatResp.Error != nil {
		return "", c.fail(ctx, fmt.Errorf("api error: %s", chatResp.Error.Message))
	}
	if len(chatResp.Choices) == 0 {
		return "", c.fail(ctx, fmt.Errorf("no choices in response"))
	}

	c.logger.DebugContext(ctx, "completion received", "model", c.model, "latency_ms", time.Since(start).Milliseconds())
	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func (c *Client) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	var used atomic.Bool

	return func(yield func(string, error) bool) {
		if used.Swap(true) {
			yield("", fmt.Errorf("%w: %w", domain.ErrRequestFailure, errStreamConsumed))
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		watchdog := idle.NewWatchdog(c.idleTimeout, cancel)
		defer watchdog.Stop()

		resp, err := c.post(ctx, prompt, true)
		if err != nil {
			yield("", c.fail(ctx, watchdog.Wrap(err)))
			return
		}
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 0, 64<<10), 1<<20)

		for sc.Scan() {
			watchdog.Reset()
			data, ok := strings.CutPrefix(sc.Text(), "data:")
			if !ok {
				// Blank separators, comments and keep-alives.
				continue
			}
			data = strings.TrimSpace(data)
			if data == "[DONE]" {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				yield("", c.fail(ctx, fmt.Errorf("decode chunk: %w", err)))
				return
			}
			if chunk.Error != nil {
				yield("", c.fail(ctx, fmt.Errorf("api error: %s", chunk.Error.Message)))
				return
			}

			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				if !yield(choice.Delta.Content, nil) {
					return
				}
				watchdog.Reset()
			}
		}

		if err := sc.Err(); err != nil {
			yield("", c.fail(ctx, watchdog.Wrap(fmt.Errorf("read stream: %w", err))))
		}
	}
}

func (c *Client) post(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		Stream:      stream,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return resp, nil
}

func (c *Client) fail(ctx context.Context, err error) error {
	c.logger.WarnContext(ctx, "chat completion failed", "model", c.model, "error", err)
	return fmt.Errorf("%w: %w", domain.ErrRequestFailure, err)
}

// Connector builds Clients that share one HTTP client and model setup.
type Connector struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	temperature float64
	idleTimeout time.Duration
	logger      *slog.Logger
}

func NewConnector(httpClient *http.Client, baseURL, model string, temperature float64, idleTimeout time.Duration, logger *slog.Logger) *Connector {
	return &Connector{
		httpClient:  httpClient,
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

func (c *Connector) Connect(_ context.Context, apiKey string) (ports.ChatClient, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingCredential
	}
	return NewClient(c.httpClient, apiKey, c.baseURL, c.model, c.temperature, c.idleTimeout, c.logger), nil
}
