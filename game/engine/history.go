package engine

// History is a bounded ring buffer of undo snapshots. Pushing onto a full
// buffer evicts the oldest entry.
type History struct {
	buf   [HistoryLimit]*GameState
	start int
	size  int
}

// NewHistory creates a history holding the newest HistoryLimit of entries
func NewHistory(entries []*GameState) *History {
	h := &History{}
	for _, s := range entries {
		h.Push(s)
	}
	return h
}

// Push appends a snapshot, evicting the oldest when full
func (h *History) Push(s *GameState) {
	if h.size == len(h.buf) {
		h.buf[h.start] = s
		h.start = (h.start + 1) % len(h.buf)
		return
	}
	h.buf[(h.start+h.size)%len(h.buf)] = s
	h.size++
}

// Pop removes and returns the newest snapshot, or nil when empty
func (h *History) Pop() *GameState {
	if h.size == 0 {
		return nil
	}
	idx := (h.start + h.size - 1) % len(h.buf)
	s := h.buf[idx]
	h.buf[idx] = nil
	h.size--
	return s
}

// Len returns the number of stored snapshots
func (h *History) Len() int {
	return h.size
}

// Entries returns deep copies of the snapshots, oldest first
func (h *History) Entries() []*GameState {
	out := make([]*GameState, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.buf[(h.start+i)%len(h.buf)].Clone())
	}
	return out
}

// Reset drops every snapshot
func (h *History) Reset() {
	*h = History{}
}
