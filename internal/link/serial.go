package link

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"

	"github.com/storskegg/linkscope/internal/textview"
)

// SerialConfig describes a serial link. An empty Port reads stdin instead.
type SerialConfig struct {
	Port     string
	BaudRate int
}

// Serial is a serial port link with automatic reconnection.
type Serial struct {
	cfg   SerialConfig
	state *ConnectionState
	sink  sink

	// open is swapped out in tests.
	open func(SerialConfig) (io.ReadWriteCloser, error)

	mu   sync.Mutex
	port io.ReadWriteCloser
}

func NewSerial(cfg SerialConfig, events chan<- textview.Event, state *ConnectionState, pause *PauseSwitch, log *logrus.Entry) *Serial {
	return &Serial{
		cfg:   cfg,
		state: state,
		sink:  sink{events: events, pause: pause, log: log.WithField("link", "serial")},
		open:  openSerialPort,
	}
}

func (s *Serial) Name() string {
	if s.cfg.Port == "" {
		return "stdin"
	}
	return fmt.Sprintf("%s @ %d", s.cfg.Port, s.cfg.BaudRate)
}

// openSerialPort attempts to open a serial port with the given configuration
func openSerialPort(cfg SerialConfig) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(cfg.Port, mode)
}

// Write sends p to the port.
func (s *Serial) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return 0, ErrNotConnected
	}
	n, err := s.port.Write(p)
	if err != nil {
		s.sink.log.WithError(err).Warn("write failed")
	}
	return n, err
}

func (s *Serial) setPort(p io.ReadWriteCloser) {
	s.mu.Lock()
	s.port = p
	s.mu.Unlock()
}

// Run reads from the port and emits lines, reconnecting indefinitely with a
// growing delay until done is closed.
func (s *Serial) Run(done <-chan struct{}) {
	// Stdin has nothing to reconnect to and nothing to write to
	if s.cfg.Port == "" {
		s.state.SetConnected(true)
		if err := s.readLoop(os.Stdin, done); err != nil && !errors.Is(err, io.EOF) {
			s.sink.log.WithError(err).Warn("stdin read failed")
		}
		return
	}

	delay := newBackoff()
	for {
		select {
		case <-done:
			return
		default:
		}

		// Attempt to open/reopen the serial port
		port, err := s.open(s.cfg)
		if err != nil {
			s.sink.log.WithError(err).Debug("open failed")
			s.state.SetError(err)
			if !wait(delay.next(), done) {
				return
			}
			continue
		}

		s.sink.log.WithField("port", s.cfg.Port).Info("connected")
		s.setPort(port)
		s.state.SetConnected(true)
		delay.reset()

		// A blocked read only returns once the port is closed
		stop := make(chan struct{})
		go func() {
			select {
			case <-done:
				port.Close()
			case <-stop:
			}
		}()

		err = s.readLoop(port, done)
		close(stop)
		s.setPort(nil)
		port.Close()

		select {
		case <-done:
			return
		default:
		}

		s.sink.log.WithError(err).Warn("connection lost")
		s.state.SetError(err)
		if !wait(delay.next(), done) {
			return
		}
	}
}

// readLoop performs the actual reading and hands each line to the sink
func (s *Serial) readLoop(r io.Reader, done <-chan struct{}) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(scanLinesKeepEOL)

	for scanner.Scan() {
		if !s.sink.emit(scanner.Bytes(), done) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}
