// Package llm selects the chat provider named in the configuration.
package llm

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/randomtoy/lifeassist-go/internal/adapters/llm/gemini"
	"github.com/randomtoy/lifeassist-go/internal/adapters/llm/openai"
	"github.com/randomtoy/lifeassist-go/internal/config"
	"github.com/randomtoy/lifeassist-go/internal/ports"
)

// NewHTTPClient applies timeout to each step of a request (dial, TLS
// handshake, waiting for response headers) rather than to the whole
// exchange. Streamed bodies are bounded per read by the clients' idle
// watchdog, so long replies that keep arriving are never cut off.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          100,
		},
	}
}

// NewConnector returns the ports.ChatConnector for cfg.LLMProvider.
// DeepSeek speaks the OpenAI chat-completions protocol.
func NewConnector(cfg config.Config, httpClient *http.Client, logger *slog.Logger) (ports.ChatConnector, error) {
	switch cfg.LLMProvider {
	case config.ProviderDeepSeek, config.ProviderOpenAI:
		return openai.NewConnector(httpClient, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTemperature, cfg.LLMTimeout, logger), nil
	case config.ProviderGemini:
		return gemini.NewConnector(httpClient, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTemperature, cfg.LLMTimeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}
