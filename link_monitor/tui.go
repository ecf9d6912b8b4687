package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/storskegg/linkscope/internal/command"
	"github.com/storskegg/linkscope/internal/link"
	"github.com/storskegg/linkscope/internal/textview"
)

// inputBarHeight is the bordered one-line input box under the history.
const inputBarHeight = 3

// app is the UI state. Only the event loop goroutine touches it.
type app struct {
	screen tcell.Screen
	view   textview.View
	events <-chan textview.Event
	link   link.Link
	state  *link.ConnectionState
	pause  *link.PauseSwitch
	sender command.Sender
	table  command.Table
	log    *logrus.Entry

	input  []rune
	status string // last input error, cleared on the next keystroke
}

// drainEvents ingests every queued link event without blocking.
func (a *app) drainEvents() {
	for {
		select {
		case ev := <-a.events:
			a.view.Ingest(ev)
		default:
			return
		}
	}
}

// draw renders the history panel, the input bar and any modal
func (a *app) draw() {
	s := a.screen
	s.Clear()
	width, height := s.Size()

	a.view.SetViewportHeight(height)
	a.view.Draw(s, textview.Rect{Width: width, Height: max(0, height-inputBarHeight)})
	a.drawInputBar(width, height)

	connected, _, attempts := a.state.GetStatus()
	if !connected && attempts > 0 {
		a.drawDisconnectionModal(width, height)
	}

	s.Show()
}

func (a *app) statusText() string {
	text := " " + a.link.Name()

	connected, lastErrTime, attempts := a.state.GetStatus()
	if connected {
		text += " | ✓ CONNECTED"
	} else if attempts > 0 {
		elapsed := time.Since(lastErrTime).Round(time.Second)
		text += fmt.Sprintf(" | ✗ DISCONNECTED (attempt %d, %v ago)", attempts, elapsed)
	} else {
		text += " | ○ CONNECTING..."
	}
	if a.pause.IsPaused() {
		text += " | [PAUSED]"
	}
	if a.status != "" {
		text += " | " + a.status
	}
	return text + " "
}

func (a *app) drawInputBar(width, height int) {
	s := a.screen
	top := height - inputBarHeight
	if top < 0 || width < 4 {
		return
	}

	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	if a.status != "" {
		borderStyle = borderStyle.Foreground(tcell.ColorRed)
	}

	for x := 0; x < width; x++ {
		s.SetContent(x, top, '─', nil, borderStyle)
		s.SetContent(x, top+2, '─', nil, borderStyle)
	}
	s.SetContent(0, top+1, '│', nil, borderStyle)
	s.SetContent(width-1, top+1, '│', nil, borderStyle)
	s.SetContent(0, top, '┌', nil, borderStyle)
	s.SetContent(width-1, top, '┐', nil, borderStyle)
	s.SetContent(0, top+2, '└', nil, borderStyle)
	s.SetContent(width-1, top+2, '┘', nil, borderStyle)
	drawText(s, 1, top, width-2, borderStyle, a.statusText(), false)

	// Keep the tail of a long line visible
	prompt := append([]rune("> "), a.input...)
	inner := width - 2
	if len(prompt) >= inner {
		prompt = prompt[len(prompt)-inner+1:]
	}
	drawText(s, 1, top+1, inner, tcell.StyleDefault, string(prompt), true)
	s.ShowCursor(1+len(prompt), top+1)

	hint := " Enter: send | /cmd | $HEX | ↑↓ PgUp/PgDn ←→: scroll | ^L: clear | ^P: pause | Esc: quit "
	drawText(s, 1, top+2, width-2, borderStyle.Dim(true), hint, false)
}

// drawText draws text at a specific position, blank-filling the rest of the
// width when fill is set
func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string, fill bool) {
	col := 0
	for _, r := range text {
		if col >= width {
			break
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
	for fill && col < width {
		s.SetContent(x+col, y, ' ', nil, style)
		col++
	}
}

// drawDisconnectionModal draws a centered modal overlay showing connection status
func (a *app) drawDisconnectionModal(width, height int) {
	s := a.screen

	// Modal dimensions
	modalWidth := 50
	modalHeight := 8
	if width < modalWidth || height < modalHeight+inputBarHeight {
		return
	}
	modalX := (width - modalWidth) / 2
	modalY := (height - inputBarHeight - modalHeight) / 2

	_, lastErrTime, attempts := a.state.GetStatus()
	elapsed := time.Since(lastErrTime).Round(time.Second)

	// Styles
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlack).Bold(true)
	bgStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed)

	// Draw modal background
	for y := modalY; y < modalY+modalHeight; y++ {
		for x := modalX; x < modalX+modalWidth; x++ {
			s.SetContent(x, y, ' ', nil, bgStyle)
		}
	}

	// Top and bottom borders
	for x := modalX; x < modalX+modalWidth; x++ {
		s.SetContent(x, modalY, '═', nil, borderStyle)
		s.SetContent(x, modalY+modalHeight-1, '═', nil, borderStyle)
	}
	// Side borders
	for y := modalY; y < modalY+modalHeight; y++ {
		s.SetContent(modalX, y, '║', nil, borderStyle)
		s.SetContent(modalX+modalWidth-1, y, '║', nil, borderStyle)
	}
	// Corners
	s.SetContent(modalX, modalY, '╔', nil, borderStyle)
	s.SetContent(modalX+modalWidth-1, modalY, '╗', nil, borderStyle)
	s.SetContent(modalX, modalY+modalHeight-1, '╚', nil, borderStyle)
	s.SetContent(modalX+modalWidth-1, modalY+modalHeight-1, '╝', nil, borderStyle)

	drawCenteredText(s, modalX, modalY+1, modalWidth, borderStyle, " CONNECTION LOST ")

	reason := "unknown error"
	if err := a.state.LastError(); err != nil {
		reason = err.Error()
	}
	if r := []rune(reason); len(r) > modalWidth-4 {
		reason = string(r[:modalWidth-7]) + "..."
	}
	drawCenteredText(s, modalX, modalY+3, modalWidth, bgStyle, reason)
	drawCenteredText(s, modalX, modalY+4, modalWidth, bgStyle, fmt.Sprintf("Reconnection attempt: %d", attempts))
	drawCenteredText(s, modalX, modalY+5, modalWidth, bgStyle, fmt.Sprintf("Time since last attempt: %v", elapsed))
	drawCenteredText(s, modalX, modalY+6, modalWidth, bgStyle, "[Esc] Quit")
}

// drawCenteredText draws text centered within a given width
func drawCenteredText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	runes := []rune(text)
	textX := x + (width-len(runes))/2
	for i, ch := range runes {
		if textX+i >= x && textX+i < x+width {
			s.SetContent(textX+i, y, ch, nil, style)
		}
	}
}
