// Package link reads from and writes to the device: a serial port, stdin or a
// Bluetooth LE peripheral. Inbound data is delivered as history events.
package link

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/storskegg/linkscope/internal/textview"
)

// ErrNotConnected is returned by Write while the device is unreachable.
var ErrNotConnected = errors.New("link: not connected")

// Link is a device connection. Run blocks until done is closed, reconnecting
// as needed. Write may be called from any goroutine.
type Link interface {
	Name() string
	Run(done <-chan struct{})
	Write(p []byte) (int, error)
}

// sink hands inbound data to the UI loop.
type sink struct {
	events chan<- textview.Event
	pause  *PauseSwitch
	log    *logrus.Entry
}

// emit queues a chunk of inbound data. It reports false if done was closed
// while waiting for room in the queue.
func (s sink) emit(data []byte, done <-chan struct{}) bool {
	if len(data) == 0 || s.pause.IsPaused() {
		return true
	}
	ev := textview.RawData{At: time.Now(), Text: string(data)}
	select {
	case s.events <- ev:
		return true
	case <-done:
		return false
	}
}

// scanLinesKeepEOL splits on '\n' like bufio.ScanLines but leaves the line
// terminator in the token so it can be shown.
func scanLinesKeepEOL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// maxPending bounds a partial line held by lineBuffer before it is emitted
// as is.
const maxPending = 4096

// lineBuffer reassembles lines from chunks that arrive split at arbitrary
// points, such as BLE notifications.
type lineBuffer struct {
	mu      sync.Mutex
	pending []byte
}

// feed appends p and returns every complete line, terminator included.
func (lb *lineBuffer) feed(p []byte) [][]byte {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.pending = append(lb.pending, p...)

	var lines [][]byte
	for {
		advance, token, _ := scanLinesKeepEOL(lb.pending, false)
		if advance == 0 {
			break
		}
		lines = append(lines, bytes.Clone(token))
		lb.pending = lb.pending[advance:]
	}
	if len(lb.pending) >= maxPending {
		lines = append(lines, bytes.Clone(lb.pending))
		lb.pending = nil
	}
	return lines
}

// flush returns the partial line, if any, and empties the buffer.
func (lb *lineBuffer) flush() []byte {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	rest := lb.pending
	lb.pending = nil
	return rest
}

// backoff grows the reconnect delay by a second up to a ceiling.
type backoff struct {
	delay, initial, max time.Duration
}

func newBackoff() *backoff {
	return &backoff{delay: time.Second, initial: time.Second, max: 5 * time.Second}
}

func (b *backoff) next() time.Duration {
	d := b.delay
	b.delay = min(b.delay+time.Second, b.max)
	return d
}

func (b *backoff) reset() { b.delay = b.initial }

// wait sleeps for d and reports false if done was closed first.
func wait(d time.Duration, done <-chan struct{}) bool {
	select {
	case <-done:
		return false
	case <-time.After(d):
		return true
	}
}
