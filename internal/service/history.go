package service

import "sync"

// History is an in-memory, append-only log of successful conversions.
// It can only be cleared as a whole. When maxEntries is positive the oldest lines are dropped.
type History struct {
	mu         sync.Mutex
	entries    []string
	maxEntries int
}

// NewHistory creates an empty History.
func NewHistory(maxEntries int) *History {
	return &History{maxEntries: maxEntries}
}

// Append records a conversion as "{amount} RUB → {result}".
func (h *History) Append(conv *Conversion) {
	line := FormatAmount(conv.Amount) + " RUB → " + conv.Text

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, line)
	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.maxEntries:]...)
	}
}

// Entries returns a copy of the log, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear empties the log.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
