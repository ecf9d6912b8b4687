package command

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storskegg/linkscope/internal/textview"
)

var now = time.Date(2024, time.March, 7, 9, 5, 3, 0, time.Local)

func TestParse(t *testing.T) {
	table := Table{"reset": "AT+RST", "info": "AT+GMR"}

	tests := []struct {
		name    string
		line    string
		want    Message
		wantErr error
	}{
		{"text", "hello world", Message{Kind: KindText, Text: "hello world"}, nil},
		{"command", "/reset", Message{Kind: KindCommand, Name: "reset", Text: "AT+RST"}, nil},
		{"command with spaces", "/ info ", Message{Kind: KindCommand, Name: "info", Text: "AT+GMR"}, nil},
		{"unknown command", "/nope", Message{}, ErrUnknownCommand},
		{"hex", "$0a1BfF", Message{Kind: KindBytes, Bytes: []byte{0x0a, 0x1b, 0xff}}, nil},
		{"hex with spaces", "$ 01 02  03", Message{Kind: KindBytes, Bytes: []byte{1, 2, 3}}, nil},
		{"odd hex", "$abc", Message{}, ErrBadHex},
		{"not hex", "$zz", Message{}, ErrBadHex},
		{"no hex", "$", Message{}, ErrBadHex},
		{"empty", "", Message{}, ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line, table)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("port closed") }

func TestSend(t *testing.T) {
	s := Sender{LineEnding: "\r\n"}

	tests := []struct {
		name    string
		msg     Message
		written string
		want    textview.Event
	}{
		{"text", Message{Kind: KindText, Text: "hi"}, "hi\r\n", textview.ConfirmedText{At: now, Text: "hi"}},
		{"command", Message{Kind: KindCommand, Name: "reset", Text: "AT+RST"}, "AT+RST\r\n",
			textview.ConfirmedCommand{At: now, Name: "reset", Text: "AT+RST"}},
		{"bytes", Message{Kind: KindBytes, Bytes: []byte{1, 2}}, "\x01\x02", textview.ConfirmedBytes{At: now, Bytes: []byte{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ev, err := s.Send(&buf, tt.msg, now)
			require.NoError(t, err)
			assert.Equal(t, tt.written, buf.String())
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestSend_Failure(t *testing.T) {
	s := Sender{}

	tests := []struct {
		name string
		msg  Message
		want textview.Event
	}{
		{"text", Message{Kind: KindText, Text: "hi"}, textview.FailedText{At: now, Text: "hi"}},
		{"command", Message{Kind: KindCommand, Name: "reset", Text: "AT+RST"}, textview.FailedCommand{At: now, Name: "reset"}},
		{"bytes", Message{Kind: KindBytes, Bytes: []byte{1}}, textview.FailedBytes{At: now, Bytes: []byte{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := s.Send(failingWriter{}, tt.msg, now)
			assert.Error(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestParseLineEnding(t *testing.T) {
	for name, want := range map[string]string{"none": "", "LF": "\n", "cr": "\r", "crlf": "\r\n"} {
		got, err := ParseLineEnding(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLineEnding("nl")
	assert.Error(t, err)
}
