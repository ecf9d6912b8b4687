// Package textview keeps the history of a device link and draws it as a
// scrollable, colored panel.
//
// A HistoryView is not safe for concurrent use. Hosts with several goroutines
// must funnel every call through a single owner, typically the UI loop.
package textview

import (
	"errors"

	"github.com/gdamore/tcell/v2"
)

// ErrInvalidCapacity is returned for a history capacity below one.
var ErrInvalidCapacity = errors.New("textview: capacity must be positive")

// View is a panel that can be fed link events and drawn on a screen.
type View interface {
	Draw(s tcell.Screen, area Rect)
	Ingest(ev Event)
	Clear()
	ScrollUp()
	ScrollDown()
	ScrollLeft()
	ScrollRight()
	SetViewportHeight(h int)
}

// HistoryView shows link traffic as timestamped, colored lines.
type HistoryView struct {
	log    *HistoryLog
	scroll scrollState
}

var _ View = (*HistoryView)(nil)

func NewHistoryView(capacity int) (*HistoryView, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &HistoryView{
		log:    newHistoryLog(capacity),
		scroll: newScrollState(),
	}, nil
}

// Ingest appends the entries for ev. Raw data may produce several entries,
// one per color segment, or none at all.
func (v *HistoryView) Ingest(ev Event) {
	v.log.Append(ev.entries()...)
}

func (v *HistoryView) Clear() {
	v.log.Clear()
	v.scroll.reset()
}

func (v *HistoryView) ScrollUp() { v.scroll.up(v.log.Len()) }
func (v *HistoryView) ScrollDown() { v.scroll.down(v.log.Len()) }
func (v *HistoryView) ScrollLeft() { v.scroll.left() }

func (v *HistoryView) ScrollRight() { v.scroll.right() }

func (v *HistoryView) SetViewportHeight(h int) { v.scroll.setViewportHeight(h) }

// Len is the number of entries in the log.
func (v *HistoryView) Len() int { return v.log.Len() }

// Entries returns a copy of the log, oldest first.
func (v *HistoryView) Entries() []Entry { return v.log.Entries() }

func (v *HistoryView) Mode() FollowMode { return v.scroll.mode }

// Offsets returns the vertical and horizontal scroll offsets as of the last
// render or scroll.
func (v *HistoryView) Offsets() (vertical, horizontal int) {
	return v.scroll.vertical, v.scroll.horizontal
}

// MaxOffset is the largest vertical offset for the current log and viewport.
func (v *HistoryView) MaxOffset() int { return v.scroll.maxOffset(v.log.Len()) }

// Render computes what the panel shows inside area.
func (v *HistoryView) Render(area Rect) Panel {
	count := v.log.Len()
	v.scroll.sync(count)

	p := Panel{Title: panelTitle(count, v.log.Dropped())}
	if v.scroll.mode == Manual {
		p.Border = BorderDouble
		p.Blink = true
	}

	rows := min(max(0, area.Height-2), count)
	for _, e := range v.log.Window(v.scroll.vertical, rows) {
		p.Lines = append(p.Lines, renderEntry(e, v.scroll.horizontal))
	}
	return p
}

// Draw renders the panel and paints it onto s.
func (v *HistoryView) Draw(s tcell.Screen, area Rect) {
	drawPanel(s, area, v.Render(area))
}
