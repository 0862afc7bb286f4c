package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/randomtoy/lifeassist-go/internal/domain"
)

func TestFragmentText(t *testing.T) {
	res := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{
					{Text: "thinking...", Thought: true},
					{Text: "Hel"},
					{Text: "lo"},
				},
			},
		}},
	}

	if got := fragmentText(res); got != "Hello" {
		t.Errorf("expected Hello, got %q", got)
	}
}

func TestFragmentText_Empty(t *testing.T) {
	cases := []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
	}
	for i, res := range cases {
		if got := fragmentText(res); got != "" {
			t.Errorf("case %d: expected empty, got %q", i, got)
		}
	}
}

func chunk(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]}}]}`, text)
}

func sseServer(t *testing.T, frags ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":streamGenerateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, f := range frags {
			fmt.Fprintf(w, "data: %s\n\n", chunk(f))
			w.(http.Flusher).Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func connect(t *testing.T, srv *httptest.Server, idleTimeout time.Duration) *Client {
	t.Helper()
	conn := NewConnector(srv.Client(), srv.URL, "gemini-2.5-flash", 0.7, idleTimeout, slog.Default())
	c, err := conn.Connect(context.Background(), "test-key")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	return c.(*Client)
}

func TestClient_Stream(t *testing.T) {
	srv := sseServer(t, "Hel", "lo", " world")
	client := connect(t, srv, 0)

	var got []string
	for frag, err := range client.Stream(context.Background(), "hi") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, frag)
	}

	if strings.Join(got, "|") != "Hel|lo| world" {
		t.Errorf("unexpected fragments: %q", got)
	}
}

func TestClient_Stream_CannotRestart(t *testing.T) {
	srv := sseServer(t, "a", "b")
	client := connect(t, srv, 0)

	seq := client.Stream(context.Background(), "hi")
	for _, err := range seq {
		if err != nil {
			t.Fatalf("first pass: %v", err)
		}
	}

	var second error
	for _, err := range seq {
		second = err
	}
	if !errors.Is(second, domain.ErrRequestFailure) {
		t.Errorf("expected ErrRequestFailure on second pass, got %v", second)
	}
}

func TestClient_Stream_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"bad","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()
	client := connect(t, srv, 0)

	var got error
	for _, err := range client.Stream(context.Background(), "hi") {
		if err != nil {
			got = err
		}
	}
	if !errors.Is(got, domain.ErrRequestFailure) {
		t.Fatalf("expected ErrRequestFailure, got %v", got)
	}
}

func TestClient_Stream_IdleTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", chunk("Hel"))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()
	client := connect(t, srv, 200*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		var last error
		for _, err := range client.Stream(context.Background(), "hi") {
			if err != nil {
				last = err
			}
		}
		done <- last
	}()

	select {
	case err := <-done:
		if !errors.Is(err, domain.ErrRequestFailure) {
			t.Fatalf("expected ErrRequestFailure, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("stalled stream was not cut off")
	}
}

func TestClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chunk("  Full reply \n"))
	}))
	defer srv.Close()
	client := connect(t, srv, 0)

	text, err := client.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Full reply" {
		t.Errorf("expected trimmed reply, got %q", text)
	}
}

func TestConnector_RequiresCredential(t *testing.T) {
	conn := NewConnector(http.DefaultClient, "", "gemini-2.5-flash", 0.7, 0, slog.Default())

	if _, err := conn.Connect(context.Background(), ""); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestConnector_SendsEachSessionKey(t *testing.T) {
	var (
		mu   sync.Mutex
		keys []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("x-goog-api-key"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chunk("ok"))
	}))
	defer srv.Close()

	conn := NewConnector(srv.Client(), srv.URL, "gemini-2.5-flash", 0.7, 0, slog.Default())
	for _, key := range []string{"key-a", "key-b", "key-a"} {
		c, err := conn.Connect(context.Background(), key)
		if err != nil {
			t.Fatalf("connect %s: %v", key, err)
		}
		if _, err := c.Complete(context.Background(), "hi"); err != nil {
			t.Fatalf("complete %s: %v", key, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(keys, ",") != "key-a,key-b,key-a" {
		t.Errorf("unexpected keys sent: %q", keys)
	}
}
