package textview

import "math"

const (
	// reservedRows are screen rows that never show history: the two panel
	// border rows and the three-row input bar below the panel.
	reservedRows = 5

	scrollStep = 3

	// unknownHeight stands in for a viewport that has not been measured yet.
	unknownHeight = math.MaxInt
)

// FollowMode tells whether the view tracks the newest entry.
type FollowMode int

const (
	// Following keeps the vertical offset pinned to the bottom.
	Following FollowMode = iota
	// Manual keeps the offset where the user left it.
	Manual
)

func (m FollowMode) String() string {
	if m == Following {
		return "following"
	}
	return "manual"
}

// scrollState holds offsets and the follow mode. Every method takes the
// current entry count because the log can grow between calls.
type scrollState struct {
	mode           FollowMode
	vertical       int
	horizontal     int
	viewportHeight int
}

func newScrollState() scrollState {
	return scrollState{mode: Following, viewportHeight: unknownHeight}
}

// visibleRows is how many history rows fit in the viewport.
func (s *scrollState) visibleRows() int {
	return max(0, s.viewportHeight-reservedRows)
}

func (s *scrollState) maxOffset(count int) int {
	return max(0, count-s.visibleRows())
}

// sync snaps the offset to the bottom when following and clamps it otherwise.
func (s *scrollState) sync(count int) {
	limit := s.maxOffset(count)
	if s.mode == Following {
		s.vertical = limit
		return
	}
	s.vertical = min(max(s.vertical, 0), limit)
}

func (s *scrollState) up(count int) {
	s.sync(count)
	if s.maxOffset(count) > 0 {
		s.mode = Manual
	}
	s.vertical = max(0, s.vertical-scrollStep)
}

func (s *scrollState) down(count int) {
	s.sync(count)
	limit := s.maxOffset(count)
	s.vertical = min(s.vertical+scrollStep, limit)
	if s.vertical == limit {
		s.mode = Following
	}
}

func (s *scrollState) left() {
	s.horizontal = max(0, s.horizontal-scrollStep)
}

func (s *scrollState) right() {
	s.horizontal += scrollStep
}

func (s *scrollState) setViewportHeight(h int) {
	s.viewportHeight = max(0, h)
}

func (s *scrollState) reset() {
	h := s.viewportHeight
	*s = newScrollState()
	s.viewportHeight = h
}
