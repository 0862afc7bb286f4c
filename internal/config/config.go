package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
)

type Config struct {
	HTTPAddr       string
	LogLevel       slog.Level
	LLMProvider    string
	LLMModel       string
	LLMBaseURL     string
	LLMTimeout     time.Duration
	LLMTemperature float64
	LLMStream      bool
	// APIKey may be empty; sessions then have to supply their own.
	APIKey     string
	SessionTTL time.Duration
	SessionMax int
}

// Load reads the optional dotenv file named by ENV_FILE (default .env) and
// then the process environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := loadEnvFile(envOr("ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	provider := strings.ToLower(envOr("LLM_PROVIDER", ProviderDeepSeek))

	c := Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		LLMProvider:    provider,
		LLMTimeout:     60 * time.Second,
		LLMTemperature: 0.7,
		LLMStream:      true,
		SessionTTL:     24 * time.Hour,
		SessionMax:     4096,
	}

	switch provider {
	case ProviderDeepSeek, ProviderOpenAI:
		c.LLMModel = envOr("LLM_MODEL", "deepseek-chat")
		c.LLMBaseURL = strings.TrimRight(envOr("LLM_BASE_URL", "https://api.deepseek.com/v1"), "/")
		c.APIKey = strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY"))
	case ProviderGemini:
		c.LLMModel = envOr("LLM_MODEL", "gemini-2.5-flash")
		// Empty keeps the SDK's own endpoint.
		c.LLMBaseURL = os.Getenv("LLM_BASE_URL")
		c.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	default:
		return Config{}, fmt.Errorf("invalid LLM_PROVIDER %q", provider)
	}

	var err error
	if c.LLMTimeout, err = durationEnv("LLM_TIMEOUT", c.LLMTimeout); err != nil {
		return Config{}, err
	}
	if c.SessionTTL, err = durationEnv("SESSION_TTL", c.SessionTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 || t > 2 {
			return Config{}, fmt.Errorf("invalid LLM_TEMPERATURE %q", v)
		}
		c.LLMTemperature = t
	}

	if v := os.Getenv("LLM_STREAM"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLM_STREAM %q: %w", v, err)
		}
		c.LLMStream = b
	}

	if v := os.Getenv("SESSION_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid SESSION_MAX %q", v)
		}
		c.SessionMax = n
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
