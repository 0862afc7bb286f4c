package domain

import (
	"errors"
	"strings"
)

var (
	ErrMissingCredential = errors.New("an API key is required before any request can be sent")
	ErrRequestFailure    = errors.New("upstream LLM request failed")
	ErrMissingInput      = errors.New("please describe the issue first")
	ErrUnknownKind       = errors.New("unknown request kind")
	ErrInvalidSelection  = errors.New("selection is not offered by the catalog")
	ErrSessionNotFound   = errors.New("session not found")
)

// UserMessage renders err as a single line suitable for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrMissingInput):
		return "请先告诉我您的困扰~"
	case errors.Is(err, ErrMissingCredential):
		return "请提供 API 密钥才能继续使用"
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if errors.Is(err, ErrRequestFailure) {
		return "获取AI响应时出错：" + msg
	}
	return msg
}
