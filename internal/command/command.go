// Package command turns lines typed by the user into payloads for the device
// and reports each send as a history event.
package command

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/storskegg/linkscope/internal/textview"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadHex         = errors.New("invalid hex string")
	ErrEmpty          = errors.New("empty input")
)

// Kind is the type of payload a line was parsed into.
type Kind int

const (
	KindText Kind = iota
	KindCommand
	KindBytes
)

// Message is a parsed input line.
type Message struct {
	Kind  Kind
	Text  string // text payload, or the command's payload
	Name  string // command name for KindCommand
	Bytes []byte // raw payload for KindBytes
}

// Table maps command names to the text they send.
type Table map[string]string

// Parse interprets line. "/name" runs a named command from table, "$HEX" sends
// raw bytes and anything else is sent as text.
func Parse(line string, table Table) (Message, error) {
	if line == "" {
		return Message{}, ErrEmpty
	}

	switch {
	case strings.HasPrefix(line, "/"):
		name := strings.TrimSpace(line[1:])
		text, ok := table[name]
		if !ok {
			return Message{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
		}
		return Message{Kind: KindCommand, Name: name, Text: text}, nil

	case strings.HasPrefix(line, "$"):
		digits := strings.Join(strings.Fields(line[1:]), "")
		b, err := hex.DecodeString(digits)
		if err != nil || len(b) == 0 {
			return Message{}, fmt.Errorf("%w: %q", ErrBadHex, line[1:])
		}
		return Message{Kind: KindBytes, Bytes: b}, nil
	}

	return Message{Kind: KindText, Text: line}, nil
}

// Sender writes messages to a link.
type Sender struct {
	// LineEnding is appended to text and command payloads, never to raw bytes.
	LineEnding string
}

// Payload returns the bytes written for msg.
func (s Sender) Payload(msg Message) []byte {
	if msg.Kind == KindBytes {
		return msg.Bytes
	}
	return []byte(msg.Text + s.LineEnding)
}

// Send writes msg to w and returns the event describing the outcome, along
// with the write error if there was one.
func (s Sender) Send(w io.Writer, msg Message, now time.Time) (textview.Event, error) {
	_, err := w.Write(s.Payload(msg))
	return Outcome(msg, now, err), err
}

// Outcome builds the history event for msg given the write result.
func Outcome(msg Message, now time.Time, err error) textview.Event {
	switch msg.Kind {
	case KindCommand:
		if err != nil {
			return textview.FailedCommand{At: now, Name: msg.Name}
		}
		return textview.ConfirmedCommand{At: now, Name: msg.Name, Text: msg.Text}
	case KindBytes:
		if err != nil {
			return textview.FailedBytes{At: now, Bytes: msg.Bytes}
		}
		return textview.ConfirmedBytes{At: now, Bytes: msg.Bytes}
	default:
		if err != nil {
			return textview.FailedText{At: now, Text: msg.Text}
		}
		return textview.ConfirmedText{At: now, Text: msg.Text}
	}
}

// ParseLineEnding maps a flag value to the bytes it stands for.
func ParseLineEnding(name string) (string, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return "", nil
	case "lf":
		return "\n", nil
	case "cr":
		return "\r", nil
	case "crlf":
		return "\r\n", nil
	}
	return "", fmt.Errorf("unknown line ending %q (want none, lf, cr or crlf)", name)
}
