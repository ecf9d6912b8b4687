package textview

// HistoryLog is the bounded, time-ordered list of entries.
type HistoryLog struct {
	ring    *RingBuffer[Entry]
	dropped int
}

func newHistoryLog(capacity int) *HistoryLog {
	return &HistoryLog{ring: NewRingBuffer[Entry](capacity)}
}

// Append adds entries in order, evicting the oldest ones past capacity.
func (h *HistoryLog) Append(entries ...Entry) {
	for _, e := range entries {
		if h.ring.Push(e) {
			h.dropped++
		}
	}
}

func (h *HistoryLog) Len() int { return h.ring.Size() }
func (h *HistoryLog) Capacity() int { return h.ring.Capacity() }

// Dropped counts entries evicted since the last Clear.
func (h *HistoryLog) Dropped() int { return h.dropped }

// Entries returns a copy of the log, oldest first.
func (h *HistoryLog) Entries() []Entry { return h.ring.GetAll() }

// Window returns up to n entries starting at offset.
func (h *HistoryLog) Window(offset, n int) []Entry {
	return h.ring.Slice(offset, offset+n)
}

func (h *HistoryLog) Clear() {
	h.ring.Reset()
	h.dropped = 0
}
