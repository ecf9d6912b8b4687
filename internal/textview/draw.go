package textview

import "github.com/gdamore/tcell/v2"

type borderRunes struct {
	horizontal, vertical                       rune
	topLeft, topRight, bottomLeft, bottomRight rune
}

var borders = map[BorderKind]borderRunes{
	BorderThick:  {'━', '┃', '┏', '┓', '┗', '┛'},
	BorderDouble: {'═', '║', '╔', '╗', '╚', '╝'},
}

// Style returns the tcell style for a span.
func (s Span) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(s.Fg.TCell()).Background(s.Bg.TCell())
}

// drawPanel paints a bordered panel with its title and rows.
func drawPanel(s tcell.Screen, area Rect, p Panel) {
	if area.Width < 2 || area.Height < 2 {
		return
	}

	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Blink(p.Blink)
	br := borders[p.Border]
	right := area.X + area.Width - 1
	bottom := area.Y + area.Height - 1

	// Top and bottom borders
	for x := area.X; x <= right; x++ {
		s.SetContent(x, area.Y, br.horizontal, nil, borderStyle)
		s.SetContent(x, bottom, br.horizontal, nil, borderStyle)
	}
	// Side borders
	for y := area.Y; y <= bottom; y++ {
		s.SetContent(area.X, y, br.vertical, nil, borderStyle)
		s.SetContent(right, y, br.vertical, nil, borderStyle)
	}
	// Corners
	s.SetContent(area.X, area.Y, br.topLeft, nil, borderStyle)
	s.SetContent(right, area.Y, br.topRight, nil, borderStyle)
	s.SetContent(area.X, bottom, br.bottomLeft, nil, borderStyle)
	s.SetContent(right, bottom, br.bottomRight, nil, borderStyle)

	putString(s, area.X+1, area.Y, area.Width-2, tcell.StyleDefault.Foreground(tcell.ColorWhite), p.Title)

	inner := area.Width - 2
	for i, line := range p.Lines {
		y := area.Y + 1 + i
		if y >= bottom {
			break
		}
		x := area.X + 1
		for _, span := range line {
			n := putString(s, x, y, inner-(x-area.X-1), span.Style(), span.Text)
			x += n
		}
		// Clear the rest of the row
		for ; x < right; x++ {
			s.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
	for y := area.Y + 1 + len(p.Lines); y < bottom; y++ {
		for x := area.X + 1; x < right; x++ {
			s.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
}

// putString draws text rune by rune, at most width cells, and returns the
// number of cells used.
func putString(s tcell.Screen, x, y, width int, style tcell.Style, text string) int {
	col := 0
	for _, r := range text {
		if col >= width {
			break
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
	return col
}
