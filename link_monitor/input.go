package main

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/storskegg/linkscope/internal/command"
)

// pageSteps is how many scroll steps PgUp/PgDn make.
const pageSteps = 3

// handleKeyboardEvent processes keyboard input and reports whether to quit
func (a *app) handleKeyboardEvent(ev *tcell.EventKey) bool {
	a.status = ""

	switch ev.Key() {
	case tcell.KeyEsc, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		a.input = append(a.input, ev.Rune())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	case tcell.KeyEnter:
		a.submit()
	case tcell.KeyUp:
		a.view.ScrollUp()
	case tcell.KeyDown:
		a.view.ScrollDown()
	case tcell.KeyPgUp:
		for i := 0; i < pageSteps; i++ {
			a.view.ScrollUp()
		}
	case tcell.KeyPgDn:
		for i := 0; i < pageSteps; i++ {
			a.view.ScrollDown()
		}
	case tcell.KeyLeft:
		if len(a.input) == 0 {
			a.view.ScrollLeft()
		}
	case tcell.KeyRight:
		if len(a.input) == 0 {
			a.view.ScrollRight()
		}
	case tcell.KeyCtrlL:
		a.view.Clear()
	case tcell.KeyCtrlP:
		paused := a.pause.Toggle()
		a.log.WithField("paused", paused).Info("pause toggled")
	}
	return false
}

// submit parses the input line, sends it and records the outcome in the
// history. Lines that fail to parse stay in the input for editing.
func (a *app) submit() {
	line := string(a.input)
	msg, err := command.Parse(line, a.table)
	if err != nil {
		if !errors.Is(err, command.ErrEmpty) {
			a.status = err.Error()
		}
		return
	}

	ev, err := a.sender.Send(a.link, msg, time.Now())
	if err != nil {
		a.log.WithError(err).WithField("input", line).Warn("send failed")
	}
	a.view.Ingest(ev)
	a.input = a.input[:0]
}

// handleMouseEvent scrolls the history with the wheel
func (a *app) handleMouseEvent(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		a.view.ScrollUp()
	case buttons&tcell.WheelDown != 0:
		a.view.ScrollDown()
	case buttons&tcell.WheelLeft != 0:
		a.view.ScrollLeft()
	case buttons&tcell.WheelRight != 0:
		a.view.ScrollRight()
	}
}
