package domain

import "sync"

// EmptyHistoryMessage is shown when a session has no entries.
const EmptyHistoryMessage = "暂无历史记录"

// History is a session's append-only log of completed requests.
// Clear is the only way entries leave it.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

// Append records e at the end of the log.
func (h *History) Append(e HistoryEntry) {
	h.mu.Lock()
	h.entries = append(h.entries, e)
	h.mu.Unlock()
}

// Clear drops every entry.
func (h *History) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}

// Len reports the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// HistoryItem is one rendered history row.
type HistoryItem struct {
	HistoryEntry
	Title    string `json:"title"`
	Expanded bool   `json:"expanded"`
}

// Render returns the entries most recent first. Only the first item is
// expanded.
func (h *History) Render() []HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistoryItem, 0, len(h.entries))
	for i := len(h.entries) - 1; i >= 0; i-- {
		e := h.entries[i]
		out = append(out, HistoryItem{
			HistoryEntry: e,
			Title:        e.Kind.Label() + " - " + e.Timestamp,
			Expanded:     len(out) == 0,
		})
	}
	return out
}
