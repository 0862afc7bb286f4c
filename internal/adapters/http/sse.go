package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// eventStream writes server-sent events. Headers are sent with the first
// event so that errors raised before any output can still use a normal
// status code.
type eventStream struct {
	res  *echo.Response
	open bool
}

func newEventStream(res *echo.Response) *eventStream {
	return &eventStream{res: res}
}

func (s *eventStream) started() bool { return s.open }

func (s *eventStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}

	if !s.open {
		h := s.res.Header()
		h.Set(echo.HeaderContentType, "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		s.res.WriteHeader(http.StatusOK)
		s.open = true
	}

	if _, err := fmt.Fprintf(s.res, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("write %s event: %w", event, err)
	}
	s.res.Flush()
	return nil
}
