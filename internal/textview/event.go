package textview

import "time"

// Event is something that happened on the link and belongs in the history.
// The concrete types below are the only implementations.
type Event interface {
	Time() time.Time
	entries() []Entry
}

// RawData is a chunk received from the device.
type RawData struct {
	At   time.Time
	Text string
}

// ConfirmedText is user text that was written to the device.
type ConfirmedText struct {
	At   time.Time
	Text string
}

// ConfirmedCommand is a named command whose payload was written to the device.
type ConfirmedCommand struct {
	At   time.Time
	Name string
	Text string
}

// ConfirmedBytes is a raw byte sequence that was written to the device.
type ConfirmedBytes struct {
	At    time.Time
	Bytes []byte
}

// FailedText is user text that could not be written.
type FailedText struct {
	At   time.Time
	Text string
}

// FailedCommand is a named command that could not be written.
type FailedCommand struct {
	At   time.Time
	Name string
}

// FailedBytes is a raw byte sequence that could not be written.
type FailedBytes struct {
	At    time.Time
	Bytes []byte
}

func (e RawData) Time() time.Time { return e.At }
func (e ConfirmedText) Time() time.Time { return e.At }
func (e ConfirmedCommand) Time() time.Time { return e.At }
func (e ConfirmedBytes) Time() time.Time { return e.At }
func (e FailedText) Time() time.Time { return e.At }
func (e FailedCommand) Time() time.Time { return e.At }
func (e FailedBytes) Time() time.Time { return e.At }

func (e RawData) entries() []Entry {
	segments := DecodeANSI(e.Text)
	out := make([]Entry, 0, len(segments))
	for _, seg := range segments {
		out = append(out, newEntry(e.At, seg.Text, seg.Color, ColorReset))
	}
	return out
}

func (e ConfirmedText) entries() []Entry {
	return []Entry{newEntry(e.At, e.Text, ColorBlack, ColorLightCyan)}
}

func (e ConfirmedCommand) entries() []Entry {
	text := "</" + e.Name + "> " + e.Text
	return []Entry{newEntry(e.At, text, ColorBlack, ColorLightGreen)}
}

func (e ConfirmedBytes) entries() []Entry {
	text := "<$" + hexString(e.Bytes) + "> " + byteList(e.Bytes)
	return []Entry{newEntry(e.At, text, ColorBlack, ColorYellow)}
}

func (e FailedText) entries() []Entry {
	return []Entry{failEntry(e.At, "Cannot send \""+e.Text+"\"")}
}

func (e FailedCommand) entries() []Entry {
	return []Entry{failEntry(e.At, "Cannot send </"+e.Name+">")}
}

func (e FailedBytes) entries() []Entry {
	return []Entry{failEntry(e.At, "Cannot send <$"+hexString(e.Bytes)+">")}
}

func failEntry(at time.Time, text string) Entry {
	return newEntry(at, text, ColorWhite, ColorLightRed)
}
