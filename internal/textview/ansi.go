package textview

import "strings"

// csi is the Control Sequence Introducer that starts every color escape.
const csi = "\x1b["

// resetCode on its own carries no content and is dropped.
const resetCode = "0m"

// Segment is a run of decoded text with the color selected for it.
type Segment struct {
	Text  string
	Color Color
}

// sgrTable lists the recognized SGR suffixes in lookup order.
var sgrTable = []struct {
	code  string
	color Color
}{
	{"0m", ColorWhite},
	{"30m", ColorBlack},
	{"0;30m", ColorBlack},
	{"31m", ColorRed},
	{"0;31m", ColorRed},
	{"32m", ColorGreen},
	{"0;32m", ColorGreen},
	{"33m", ColorYellow},
	{"0;33m", ColorYellow},
	{"34m", ColorBlue},
	{"0;34m", ColorBlue},
	{"35m", ColorMagenta},
	{"0;35m", ColorMagenta},
	{"36m", ColorCyan},
	{"0;36m", ColorCyan},
	{"37m", ColorGray},
	{"0;37m", ColorGray},
}

// lookupSGR finds the table entry that prefixes fragment.
func lookupSGR(fragment string) (code string, color Color, ok bool) {
	for _, e := range sgrTable {
		if strings.HasPrefix(fragment, e.code) {
			return e.code, e.color, true
		}
	}
	return "", ColorWhite, false
}

// DecodeANSI splits raw into colored segments. Text following a recognized
// color code takes that color; anything else is kept verbatim in white.
func DecodeANSI(raw string) []Segment {
	if raw == "" {
		return nil
	}

	var out []Segment
	for _, fragment := range strings.Split(raw, csi) {
		if fragment == "" {
			continue
		}

		code, color, ok := lookupSGR(fragment)
		if !ok {
			out = append(out, Segment{Text: fragment, Color: ColorWhite})
			continue
		}
		if fragment == resetCode {
			continue
		}

		rest := strings.TrimSpace(fragment[len(code):])
		if rest == "" {
			continue
		}
		out = append(out, Segment{Text: rest, Color: color})
	}
	return out
}
