package link

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/bluetooth"

	"github.com/storskegg/linkscope/internal/textview"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestScanLinesKeepEOL(t *testing.T) {
	sc := bufio.NewScanner(strings.NewReader("one\r\ntwo\n\nthree"))
	sc.Split(scanLinesKeepEOL)

	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{"one\r\n", "two\n", "\n", "three"}, got)
}

func TestChunks(t *testing.T) {
	assert.Nil(t, chunks(nil, 20))
	assert.Equal(t, [][]byte{[]byte("abc")}, chunks([]byte("abc"), 20))
	assert.Equal(t, [][]byte{[]byte("ab"), []byte("cd"), []byte("e")}, chunks([]byte("abcde"), 2))
}

func TestBackoff(t *testing.T) {
	b := newBackoff()
	var got []time.Duration
	for i := 0; i < 7; i++ {
		got = append(got, b.next())
	}
	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second,
		5 * time.Second, 5 * time.Second, 5 * time.Second,
	}, got)

	b.reset()
	assert.Equal(t, time.Second, b.next())
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recordingNotifier) Connected() { r.add("connected") }
func (r *recordingNotifier) Disconnected() { r.add("disconnected") }
func (r *recordingNotifier) RetryFailed() { r.add("retry") }

func (r *recordingNotifier) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestConnectionState(t *testing.T) {
	n := &recordingNotifier{}
	cs := NewConnectionState(n)

	cs.SetError(errors.New("no such port"))
	cs.SetError(errors.New("no such port"))
	connected, _, attempts := cs.GetStatus()
	assert.False(t, connected)
	assert.Equal(t, 2, attempts)

	cs.SetConnected(true)
	cs.SetConnected(true)
	connected, _, attempts = cs.GetStatus()
	assert.True(t, connected)
	assert.Zero(t, attempts)

	cs.SetError(io.EOF)
	assert.ErrorIs(t, cs.LastError(), io.EOF)
	assert.Equal(t, []string{"retry", "retry", "connected", "disconnected"}, n.list())
}

func TestPauseSwitch(t *testing.T) {
	var nilSwitch *PauseSwitch
	assert.False(t, nilSwitch.IsPaused())

	p := &PauseSwitch{}
	assert.True(t, p.Toggle())
	assert.True(t, p.IsPaused())
	assert.False(t, p.Toggle())
}

type fakePort struct {
	io.Reader
	mu      sync.Mutex
	written strings.Builder
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written.Write(p)
}

func (f *fakePort) Close() error { return nil }

func TestSerial_RunEmitsLinesAndReconnects(t *testing.T) {
	events := make(chan textview.Event, 10)
	n := &recordingNotifier{}
	s := NewSerial(SerialConfig{Port: "/dev/fake", BaudRate: 9600}, events, NewConnectionState(n), &PauseSwitch{}, quietLog())

	var opens int
	var mu sync.Mutex
	s.open = func(SerialConfig) (io.ReadWriteCloser, error) {
		mu.Lock()
		defer mu.Unlock()
		opens++
		if opens > 1 {
			return nil, errors.New("gone")
		}
		return &fakePort{Reader: strings.NewReader("\x1b[32mok\x1b[0m\r\npartial")}, nil
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		s.Run(done)
		close(finished)
	}()

	var got []string
	for len(got) < 2 {
		select {
		case ev := <-events:
			got = append(got, ev.(textview.RawData).Text)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for data")
		}
	}
	assert.Equal(t, []string{"\x1b[32mok\x1b[0m\r\n", "partial"}, got)

	close(done)
	select {
	case <-finished:
	case <-time.After(7 * time.Second):
		t.Fatal("Run did not return")
	}

	_, err := s.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Contains(t, n.list(), "connected")
}

func TestSerial_PausedDropsData(t *testing.T) {
	events := make(chan textview.Event, 10)
	pause := &PauseSwitch{}
	pause.Toggle()
	s := NewSerial(SerialConfig{Port: "/dev/fake"}, events, NewConnectionState(nil), pause, quietLog())

	err := s.readLoop(strings.NewReader("a\nb\n"), make(chan struct{}))
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, events)
}

func TestSerial_Write(t *testing.T) {
	s := NewSerial(SerialConfig{Port: "/dev/fake"}, nil, NewConnectionState(nil), nil, quietLog())
	port := &fakePort{Reader: strings.NewReader("")}
	s.setPort(port)

	n, err := s.Write([]byte("AT\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "AT\r\n", port.written.String())
}

func TestNames(t *testing.T) {
	assert.Equal(t, "stdin", NewSerial(SerialConfig{}, nil, nil, nil, quietLog()).Name())
	assert.Equal(t, "/dev/ttyUSB0 @ 115200",
		NewSerial(SerialConfig{Port: "/dev/ttyUSB0", BaudRate: 115200}, nil, nil, nil, quietLog()).Name())
}

func TestLineBuffer(t *testing.T) {
	var lb lineBuffer
	assert.Empty(t, lb.feed([]byte("\x1b[3")))
	assert.Equal(t, [][]byte{[]byte("\x1b[32mok\r\n")}, lb.feed([]byte("2mok\r\nne")))
	assert.Equal(t, [][]byte{[]byte("next\n"), []byte("\n")}, lb.feed([]byte("xt\n\n")))
	assert.Empty(t, lb.feed([]byte("prompt> ")))
	assert.Equal(t, []byte("prompt> "), lb.flush())
	assert.Nil(t, lb.flush())

	long := strings.Repeat("x", maxPending)
	assert.Equal(t, [][]byte{[]byte(long)}, lb.feed([]byte(long)))
	assert.Nil(t, lb.flush())
}

func TestBLE_ReceiveJoinsSplitNotifications(t *testing.T) {
	events := make(chan textview.Event, 10)
	b := NewBLE(BLEConfig{DeviceName: "UART"}, events, NewConnectionState(nil), &PauseSwitch{}, quietLog())
	done := make(chan struct{})

	b.receive([]byte("\x1b[31mer"), done)
	assert.Empty(t, events)
	b.receive([]byte("ror\x1b[0m\r\n"), done)

	require.Len(t, events, 1)
	assert.Equal(t, "\x1b[31merror\x1b[0m\r\n", (<-events).(textview.RawData).Text)
}

func TestBLE_ReconnectsAfterPeripheralDrops(t *testing.T) {
	events := make(chan textview.Event, 10)
	n := &recordingNotifier{}
	state := NewConnectionState(n)
	b := NewBLE(BLEConfig{DeviceName: "UART"}, events, state, &PauseSwitch{}, quietLog())

	var (
		mu    sync.Mutex
		dials int
	)
	b.dial = func(<-chan struct{}) error {
		mu.Lock()
		defer mu.Unlock()
		dials++
		if dials == 1 {
			return errPeripheralNotFound
		}
		b.attach(nil, &bluetooth.DeviceCharacteristic{})
		return nil
	}
	dialCount := func() int {
		mu.Lock()
		defer mu.Unlock()
		return dials
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		b.runLoop(done)
		close(finished)
	}()

	require.Eventually(t, func() bool {
		connected, _, _ := state.GetStatus()
		return connected
	}, 3*time.Second, 10*time.Millisecond)

	b.receive([]byte("half a li"), done)
	b.dropped()

	require.Eventually(t, func() bool { return dialCount() == 3 }, 3*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return len(n.list()) == 4 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"retry", "connected", "disconnected", "connected"}, n.list())
	assert.ErrorIs(t, state.LastError(), errConnectionLost)

	require.Len(t, events, 1)
	assert.Equal(t, "half a li", (<-events).(textview.RawData).Text)

	// A disconnect with nothing held does not trigger another redial
	b.disconnect()
	b.dropped()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 3, dialCount())

	close(done)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("runLoop did not return")
	}

	_, err := b.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrNotConnected)
}
