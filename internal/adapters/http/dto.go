package http

import "github.com/randomtoy/lifeassist-go/internal/domain"

// GenerateRequest is the body of POST /v1/generate/:kind.
type GenerateRequest struct {
	Scenario string `json:"scenario" form:"scenario"`
	Mood     string `json:"mood" form:"mood"`
	Zodiac   string `json:"zodiac" form:"zodiac"`
	Issue    string `json:"issue" form:"issue"`
	// Stream overrides the server default when set.
	Stream *bool `json:"stream,omitempty" form:"stream"`
}

func (r GenerateRequest) selection() domain.Selection {
	return domain.Selection{
		Scenario: r.Scenario,
		Mood:     r.Mood,
		Zodiac:   r.Zodiac,
		Issue:    r.Issue,
	}
}

// GenerateResponse is returned for buffered requests and as the payload of
// the SSE "done" event.
type GenerateResponse struct {
	Entry domain.HistoryEntry `json:"entry"`
	Meta  MetaResp            `json:"meta"`
}

type MetaResp struct {
	RequestID string `json:"request_id"`
	LatencyMS int64  `json:"latency_ms"`
}

// FragmentEvent is the payload of the SSE "fragment" event.
type FragmentEvent struct {
	Text string `json:"text"`
}

// StreamErrorEvent is the payload of the SSE "error" event.
type StreamErrorEvent struct {
	Error   string `json:"error"`
	Partial string `json:"partial,omitempty"`
}

type CredentialRequest struct {
	APIKey string `json:"api_key" form:"api_key"`
}

type ThemeRequest struct {
	Theme string `json:"theme" form:"theme"`
}

type SessionStatus struct {
	Locked bool   `json:"locked"`
	Theme  string `json:"theme"`
}

type KindResp struct {
	ID    domain.RequestKind `json:"id"`
	Label string             `json:"label"`
}

type CatalogResponse struct {
	Scenarios []string   `json:"scenarios"`
	Moods     []string   `json:"moods"`
	Zodiac    []string   `json:"zodiac"`
	Kinds     []KindResp `json:"kinds"`
}

type HistoryResponse struct {
	Items []domain.HistoryItem `json:"items"`
	// Message is set only when Items is empty.
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// WarningResponse reports input the user has to fix before retrying.
type WarningResponse struct {
	Warning string `json:"warning"`
}

func toHistoryResponse(items []domain.HistoryItem) HistoryResponse {
	if len(items) == 0 {
		return HistoryResponse{Items: []domain.HistoryItem{}, Message: domain.EmptyHistoryMessage}
	}
	return HistoryResponse{Items: items}
}

func toCatalogResponse(c domain.Catalog) CatalogResponse {
	kinds := make([]KindResp, len(domain.Kinds))
	for i, k := range domain.Kinds {
		kinds[i] = KindResp{ID: k, Label: k.Label()}
	}
	return CatalogResponse{
		Scenarios: c.Scenarios,
		Moods:     c.Moods,
		Zodiac:    c.Zodiac,
		Kinds:     kinds,
	}
}
