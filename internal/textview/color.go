package textview

import "github.com/gdamore/tcell/v2"

// Color is a logical palette color. The history log stores these rather than
// tcell colors so that entries stay comparable and independent of the screen.
type Color int

const (
	ColorReset Color = iota // no color, terminal default
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorGray
	ColorWhite
	ColorLightRed
	ColorLightGreen
	ColorLightCyan
	ColorLightMagenta
)

var colorNames = map[Color]string{
	ColorReset:        "reset",
	ColorBlack:        "black",
	ColorRed:          "red",
	ColorGreen:        "green",
	ColorYellow:       "yellow",
	ColorBlue:         "blue",
	ColorMagenta:      "magenta",
	ColorCyan:         "cyan",
	ColorGray:         "gray",
	ColorWhite:        "white",
	ColorLightRed:     "light-red",
	ColorLightGreen:   "light-green",
	ColorLightCyan:    "light-cyan",
	ColorLightMagenta: "light-magenta",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "unknown"
}

// TCell maps the logical color onto the 16-color ANSI palette.
func (c Color) TCell() tcell.Color {
	switch c {
	case ColorBlack:
		return tcell.ColorBlack
	case ColorRed:
		return tcell.ColorMaroon
	case ColorGreen:
		return tcell.ColorGreen
	case ColorYellow:
		return tcell.ColorOlive
	case ColorBlue:
		return tcell.ColorNavy
	case ColorMagenta:
		return tcell.ColorPurple
	case ColorCyan:
		return tcell.ColorTeal
	case ColorGray:
		return tcell.ColorSilver
	case ColorWhite:
		return tcell.ColorWhite
	case ColorLightRed:
		return tcell.ColorRed
	case ColorLightGreen:
		return tcell.ColorLime
	case ColorLightCyan:
		return tcell.ColorAqua
	case ColorLightMagenta:
		return tcell.ColorFuchsia
	default:
		return tcell.ColorDefault
	}
}

// highlightFor returns the color used for escaped non-printable runs of text
// drawn in fg.
func highlightFor(fg Color) Color {
	if fg == ColorMagenta {
		return ColorCyan
	}
	return ColorLightMagenta
}
