package http

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/lifeassist-go/internal/domain"
	"github.com/randomtoy/lifeassist-go/internal/observability"
	"github.com/randomtoy/lifeassist-go/internal/ports"
)

const (
	headerRequestID = "X-Request-Id"
	sessionCookie   = "lifeassist_session"

	ctxRequestID = "request_id"
	ctxSession   = "session"
)

// RequestIDMiddleware ensures every request has a unique X-Request-Id and
// carries it in the request context for downstream loggers.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(headerRequestID)
			if id == "" {
				id = generateID()
			}
			c.Response().Header().Set(headerRequestID, id)
			c.Set(ctxRequestID, id)
			req := c.Request()
			c.SetRequest(req.WithContext(observability.WithRequestID(req.Context(), id)))
			return next(c)
		}
	}
}

// LoggingMiddleware logs each request with structured fields.
func LoggingMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			attrs := []any{
				"request_id", c.Get(ctxRequestID),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
			}
			if sess, ok := c.Get(ctxSession).(*domain.SessionState); ok {
				attrs = append(attrs, "session_id", sess.ID)
			}
			logger.Info("request", attrs...)
			return nil
		}
	}
}

// SessionMiddleware binds each request to a session through the
// lifeassist_session cookie, creating a fresh session when the cookie is
// missing or its session has expired.
func SessionMiddleware(store ports.SessionStore, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *domain.SessionState
			if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
				sess, _ = store.Get(ck.Value)
			}
			if sess == nil {
				sess = store.NewSession()
				c.SetCookie(&http.Cookie{
					Name:     sessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Info("session created",
					"request_id", c.Get(ctxRequestID),
					"session_id", sess.ID,
					"live_sessions", store.Len(),
				)
			}
			c.Set(ctxSession, sess)
			return next(c)
		}
	}
}

func sessionFrom(c echo.Context) (*domain.SessionState, error) {
	sess, ok := c.Get(ctxSession).(*domain.SessionState)
	if !ok || sess == nil {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
