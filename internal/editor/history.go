package editor

import "sync"

const DefaultHistoryCapacity = 10

// History is a bounded stack of plain-text snapshots taken before
// destructive actions. The oldest entry is evicted once it is full, and a
// snapshot equal to the current top is not stored twice.
type History struct {
	mu       sync.Mutex
	entries  []string
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity}
}

// Push records a snapshot and reports whether it was stored.
func (h *History) Push(text string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == text {
		return false
	}
	if len(h.entries) == h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, text)
	return true
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.entries)
	if n == 0 {
		return "", false
	}
	top := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return top, true
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns the snapshots, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
