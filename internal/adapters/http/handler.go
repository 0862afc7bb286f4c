package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/lifeassist-go/internal/app"
	"github.com/randomtoy/lifeassist-go/internal/domain"
	"github.com/randomtoy/lifeassist-go/internal/observability"
)

type Handler struct {
	svc    *app.Assistant
	stream bool
	render *renderer
	logger *slog.Logger
}

// NewHandler builds the HTTP surface. stream is the relay mode used when a
// generate request does not choose one.
func NewHandler(svc *app.Assistant, stream bool, logger *slog.Logger) (*Handler, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Handler{svc: svc, stream: stream, render: r, logger: logger}, nil
}

func (h *Handler) Register(e *echo.Echo) {
	e.Renderer = h.render

	e.GET("/", h.Index)
	e.GET("/healthz", h.Healthz)
	e.GET("/partials/history", h.HistoryPartial)

	v1 := e.Group("/v1")
	v1.GET("/catalog", h.Catalog)
	v1.POST("/credential", h.SetCredential)
	v1.POST("/generate/:kind", h.Generate)
	v1.GET("/history", h.History)
	v1.DELETE("/history", h.ClearHistory)
	v1.POST("/theme", h.SetTheme)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Index(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return h.mapError(c, err)
	}
	cat, err := h.svc.Catalog(c.Request().Context())
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Render(http.StatusOK, "index", pageData{
		Catalog:  cat,
		Kinds:    toCatalogResponse(cat).Kinds,
		Locked:   h.svc.Locked(sess),
		Theme:    sess.CurrentTheme(),
		History:  h.render.history(sess.History.Render()),
		Defaults: cat.Default(),
	})
}

func (h *Handler) Catalog(c echo.Context) error {
	cat, err := h.svc.Catalog(c.Request().Context())
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toCatalogResponse(cat))
}

func (h *Handler) SetCredential(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return h.mapError(c, err)
	}

	var body CredentialRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := h.svc.SetCredential(sess, body.APIKey); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, SessionStatus{Locked: false, Theme: string(sess.CurrentTheme())})
}

func (h *Handler) SetTheme(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return h.mapError(c, err)
	}

	var body ThemeRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	next := sess.CurrentTheme().Toggle()
	if body.Theme != "" {
		t, ok := domain.ParseTheme(body.Theme)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "theme must be light or dark"})
		}
		next = t
	}
	sess.SetTheme(next)

	return c.JSON(http.StatusOK, SessionStatus{Locked: h.svc.Locked(sess), Theme: string(next)})
}

func (h *Handler) History(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toHistoryResponse(sess.History.Render()))
}

func (h *Handler) HistoryPartial(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Render(http.StatusOK, "history", h.render.history(sess.History.Render()))
}

func (h *Handler) ClearHistory(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return h.mapError(c, err)
	}
	h.svc.ClearHistory(sess)
	return c.JSON(http.StatusOK, toHistoryResponse(sess.History.Render()))
}

// Generate runs one action. Streamed replies are sent as SSE "fragment"
// events followed by "done" or "error"; buffered replies are plain JSON.
func (h *Handler) Generate(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return h.mapError(c, err)
	}
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		return h.mapError(c, err)
	}

	var body GenerateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	stream := h.stream
	if body.Stream != nil {
		stream = *body.Stream
	}
	req := app.GenerateRequest{Kind: kind, Selection: body.selection(), Stream: stream}
	ctx := c.Request().Context()
	requestID, _ := c.Get(ctxRequestID).(string)

	if !stream {
		resp, err := h.svc.Generate(ctx, sess, req, nil)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, GenerateResponse{
			Entry: resp.Entry,
			Meta:  MetaResp{RequestID: requestID, LatencyMS: resp.LatencyMS},
		})
	}

	events := newEventStream(c.Response())
	resp, err := h.svc.Generate(ctx, sess, req, func(fragment, _ string) error {
		return events.send("fragment", FragmentEvent{Text: fragment})
	})
	if err != nil {
		if !events.started() {
			return h.mapError(c, err)
		}
		if ctx.Err() != nil {
			// The client went away; nobody is left to read the event.
			return nil
		}
		return events.send("error", StreamErrorEvent{Error: domain.UserMessage(err), Partial: resp.Partial})
	}

	return events.send("done", GenerateResponse{
		Entry: resp.Entry,
		Meta:  MetaResp{RequestID: requestID, LatencyMS: resp.LatencyMS},
	})
}

func (h *Handler) mapError(c echo.Context, err error) error {
	log := observability.LoggerFromContext(c.Request().Context(), h.logger)

	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: domain.UserMessage(err)})
	case errors.Is(err, domain.ErrMissingInput):
		return c.JSON(http.StatusUnprocessableEntity, WarningResponse{Warning: domain.UserMessage(err)})
	case errors.Is(err, domain.ErrUnknownKind), errors.Is(err, domain.ErrInvalidSelection):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrRequestFailure):
		log.Error("upstream LLM failure", "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: domain.UserMessage(err)})
	case errors.Is(err, context.Canceled) && c.Request().Context().Err() != nil:
		log.Info("client went away", "error", err)
		return nil
	default:
		log.Error("internal error", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
