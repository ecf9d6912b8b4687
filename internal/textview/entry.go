package textview

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// timestampLayout renders as "DD/MM/YYYY HH:MM:SS".
const timestampLayout = "02/01/2006 15:04:05"

// Entry is one line of the history. It cannot be changed once built.
type Entry struct {
	at   time.Time
	text string
	fg   Color
	bg   Color
}

func newEntry(at time.Time, text string, fg, bg Color) Entry {
	return Entry{at: at, text: text, fg: fg, bg: bg}
}

func (e Entry) Time() time.Time { return e.at }
func (e Entry) Text() string { return e.text }
func (e Entry) Foreground() Color { return e.fg }
func (e Entry) Background() Color { return e.bg }

// Timestamp is the prefix drawn before the entry text, in local time.
func (e Entry) Timestamp() string {
	return "[" + e.at.Local().Format(timestampLayout) + "] "
}

// timestampColor is the background color when the row has one, so the prefix
// stands out against it, and the foreground otherwise.
func (e Entry) timestampColor() Color {
	if e.bg != ColorReset {
		return e.bg
	}
	return e.fg
}

func hexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// byteList formats b as "[1, 2, 255]".
func byteList(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	sb.WriteByte(']')
	return sb.String()
}
