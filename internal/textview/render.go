package textview

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Rect is a screen area in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Span is a run of text drawn with one style.
type Span struct {
	Text string
	Fg   Color
	Bg   Color
}

// Line is one rendered history row.
type Line []Span

// String joins the span texts, which is what ends up on screen.
func (l Line) String() string {
	var sb strings.Builder
	for _, s := range l {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// BorderKind selects the frame drawn around the panel.
type BorderKind int

const (
	BorderThick BorderKind = iota
	BorderDouble
)

// Panel is the render-ready form of the history view.
type Panel struct {
	Title  string
	Border BorderKind
	Blink  bool
	Lines  []Line
}

// isPrintable reports whether r is drawn as-is: printable ASCII only.
func isPrintable(r rune) bool {
	return r >= 0x20 && r <= 0x7e
}

// escapeInvisible renders a run of non-printable text as visible escapes.
// Newlines become `\n`; every other byte becomes `\xHH`.
func escapeInvisible(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\n' {
			sb.WriteString(`\n`)
		} else {
			for _, b := range []byte(s[i : i+size]) {
				fmt.Fprintf(&sb, `\x%02x`, b)
			}
		}
		i += size
	}
	return sb.String()
}

// highlightInvisible splits text into alternating printable and escaped runs.
// Escaped runs take the highlight color for fg.
func highlightInvisible(text string, fg, bg Color) Line {
	var (
		out       Line
		run       strings.Builder
		invisible bool
	)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if invisible {
			out = append(out, Span{Text: escapeInvisible(run.String()), Fg: highlightFor(fg), Bg: bg})
		} else {
			out = append(out, Span{Text: run.String(), Fg: fg, Bg: bg})
		}
		run.Reset()
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		// An invalid byte decodes as RuneError and is escaped like any other.
		printable := isPrintable(r)
		if printable == invisible {
			flush()
			invisible = !printable
		}
		run.WriteString(text[i : i+size])
		i += size
	}
	flush()
	return out
}

// skipRunes drops the first n characters of s.
func skipRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}

// renderEntry builds the row for e with the first skip characters cut off.
func renderEntry(e Entry, skip int) Line {
	line := Line{{Text: e.Timestamp(), Fg: e.timestampColor(), Bg: ColorReset}}
	return append(line, highlightInvisible(skipRunes(e.text, skip), e.fg, e.bg)...)
}

func panelTitle(count, dropped int) string {
	marker := ""
	if dropped > 0 {
		marker = "+"
	}
	return fmt.Sprintf("[%03d%s] Text UTF-8", count, marker)
}
