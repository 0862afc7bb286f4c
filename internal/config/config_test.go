package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/randomtoy/lifeassist-go/internal/config"
)

var configVars = []string{
	"ENV_FILE", "HTTP_ADDR", "LOG_LEVEL", "LLM_PROVIDER", "LLM_MODEL",
	"LLM_BASE_URL", "DEEPSEEK_API_KEY", "GEMINI_API_KEY", "LLM_TIMEOUT",
	"LLM_TEMPERATURE", "LLM_STREAM", "SESSION_TTL", "SESSION_MAX",
}

// clearEnv unsets every variable Load reads and points ENV_FILE at a file
// that does not exist. The original values are restored after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", c.LogLevel)
	}
	if c.LLMProvider != config.ProviderDeepSeek || c.LLMModel != "deepseek-chat" {
		t.Errorf("provider/model = %q/%q", c.LLMProvider, c.LLMModel)
	}
	if c.LLMBaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("LLMBaseURL = %q", c.LLMBaseURL)
	}
	if c.LLMTimeout != 60*time.Second || c.LLMTemperature != 0.7 || !c.LLMStream {
		t.Errorf("unexpected llm settings: %+v", c)
	}
	if c.SessionTTL != 24*time.Hour || c.SessionMax != 4096 {
		t.Errorf("unexpected session settings: %+v", c)
	}
	if c.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", c.APIKey)
	}
}

func TestLoad_MissingKeyIsNotAnError(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")

	c, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.APIKey != "" || c.LLMModel != "gemini-2.5-flash" || c.LLMBaseURL != "" {
		t.Errorf("unexpected config: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_BASE_URL", "http://localhost:1234/v1/")
	t.Setenv("DEEPSEEK_API_KEY", " sk-test ")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("LLM_TEMPERATURE", "1.2")
	t.Setenv("LLM_STREAM", "false")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SESSION_MAX", "10")

	c, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.HTTPAddr != ":9090" || c.LogLevel != slog.LevelDebug {
		t.Errorf("unexpected addr/level: %q %v", c.HTTPAddr, c.LogLevel)
	}
	if c.LLMModel != "gpt-4o-mini" || c.LLMBaseURL != "http://localhost:1234/v1" {
		t.Errorf("unexpected model/base: %q %q", c.LLMModel, c.LLMBaseURL)
	}
	if c.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", c.APIKey)
	}
	if c.LLMTimeout != 5*time.Second || c.LLMTemperature != 1.2 || c.LLMStream {
		t.Errorf("unexpected llm settings: %+v", c)
	}
	if c.SessionTTL != 30*time.Minute || c.SessionMax != 10 {
		t.Errorf("unexpected session settings: %+v", c)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DEEPSEEK_API_KEY=sk-from-file\nHTTP_ADDR=:7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("HTTP_ADDR", ":6060")

	c, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.APIKey != "sk-from-file" {
		t.Errorf("APIKey = %q", c.APIKey)
	}
	if c.HTTPAddr != ":6060" {
		t.Errorf("environment should win over env file, got %q", c.HTTPAddr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"LLM_PROVIDER":    "claude",
		"LOG_LEVEL":       "verbose",
		"LLM_TIMEOUT":     "soon",
		"SESSION_TTL":     "-1h",
		"LLM_TEMPERATURE": "3",
		"LLM_STREAM":      "maybe",
		"SESSION_MAX":     "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
