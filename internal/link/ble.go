package link

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"

	"github.com/storskegg/linkscope/internal/textview"
)

const (
	scanTimeout = 10 * time.Second

	// attHeader is the ATT overhead subtracted from the MTU for each write.
	attHeader  = 3
	DefaultMTU = 23
)

var (
	errPeripheralNotFound = errors.New("no matching peripheral")
	errConnectionLost     = errors.New("peripheral disconnected")
)

// BLEConfig describes a Bluetooth LE link over the Nordic UART service.
type BLEConfig struct {
	// DeviceName is matched as a substring of the advertised local name.
	DeviceName string
	MTU        int
}

// BLE is a link to a peripheral exposing the Nordic UART service. Data
// notified on the TX characteristic is emitted; writes go to RX.
type BLE struct {
	cfg     BLEConfig
	state   *ConnectionState
	sink    sink
	adapter *bluetooth.Adapter
	lines   lineBuffer

	// dial finds and connects to the peripheral; replaced in tests
	dial func(done <-chan struct{}) error
	lost chan struct{}

	mu     sync.Mutex
	device *bluetooth.Device
	rx     *bluetooth.DeviceCharacteristic
}

func NewBLE(cfg BLEConfig, events chan<- textview.Event, state *ConnectionState, pause *PauseSwitch, log *logrus.Entry) *BLE {
	if cfg.MTU <= attHeader {
		cfg.MTU = DefaultMTU
	}
	b := &BLE{
		cfg:     cfg,
		state:   state,
		sink:    sink{events: events, pause: pause, log: log.WithField("link", "ble")},
		adapter: bluetooth.DefaultAdapter,
		lost:    make(chan struct{}, 1),
	}
	b.dial = b.connect
	return b
}

func (b *BLE) Name() string {
	return fmt.Sprintf("BLE %q (mtu %d)", b.cfg.DeviceName, b.cfg.MTU)
}

// Write sends p to the RX characteristic in MTU-sized chunks.
func (b *BLE) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rx == nil {
		return 0, ErrNotConnected
	}

	written := 0
	for _, chunk := range chunks(p, b.cfg.MTU-attHeader) {
		n, err := b.rx.WriteWithoutResponse(chunk)
		written += n
		if err != nil {
			b.sink.log.WithError(err).Warn("write failed")
			return written, err
		}
	}
	return written, nil
}

// chunks splits p into pieces of at most size bytes.
func chunks(p []byte, size int) [][]byte {
	var out [][]byte
	for len(p) > size {
		out = append(out, p[:size])
		p = p[size:]
	}
	if len(p) > 0 {
		out = append(out, p)
	}
	return out
}

// Run enables the adapter and keeps a connection to the peripheral until done
// is closed, reconnecting with a growing delay whenever it fails or drops.
func (b *BLE) Run(done <-chan struct{}) {
	if err := b.adapter.Enable(); err != nil {
		b.sink.log.WithError(err).Error("enable adapter")
		b.state.SetError(fmt.Errorf("enable bluetooth adapter: %w", err))
		return
	}
	// Must be registered before Connect to be called on disconnects
	b.adapter.SetConnectHandler(func(_ bluetooth.Device, connected bool) {
		if !connected {
			b.dropped()
		}
	})
	b.runLoop(done)
}

func (b *BLE) runLoop(done <-chan struct{}) {
	delay := newBackoff()
	for {
		if err := b.dial(done); err != nil {
			b.sink.log.WithError(err).Debug("connect failed")
			b.state.SetError(err)
			if !wait(delay.next(), done) {
				return
			}
			continue
		}

		delay.reset()
		b.state.SetConnected(true)
		select {
		case <-done:
			b.disconnect()
			return
		case <-b.lost:
			b.sink.log.Warn("peripheral disconnected")
			b.sink.emit(b.lines.flush(), done)
			b.state.SetError(errConnectionLost)
		}
	}
}

// dropped forgets the current connection and wakes runLoop. A disconnect
// while no connection is held is ignored.
func (b *BLE) dropped() {
	b.mu.Lock()
	held := b.rx != nil
	b.device = nil
	b.rx = nil
	b.mu.Unlock()

	if held {
		select {
		case b.lost <- struct{}{}:
		default:
		}
	}
}

func (b *BLE) attach(device *bluetooth.Device, rx *bluetooth.DeviceCharacteristic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.device = device
	b.rx = rx
}

// receive turns notifications into whole lines so escape sequences split
// across packets stay intact.
func (b *BLE) receive(buf []byte, done <-chan struct{}) {
	for _, line := range b.lines.feed(buf) {
		if !b.sink.emit(line, done) {
			return
		}
	}
}

func (b *BLE) scan() (bluetooth.ScanResult, error) {
	var (
		found bluetooth.ScanResult
		ok    bool
	)
	timer := time.AfterFunc(scanTimeout, func() { b.adapter.StopScan() })
	defer timer.Stop()

	err := b.adapter.Scan(func(a *bluetooth.Adapter, r bluetooth.ScanResult) {
		if strings.Contains(r.LocalName(), b.cfg.DeviceName) {
			found, ok = r, true
			a.StopScan()
		}
	})
	if err != nil {
		return found, fmt.Errorf("scan: %w", err)
	}
	if !ok {
		return found, fmt.Errorf("%w: %q", errPeripheralNotFound, b.cfg.DeviceName)
	}
	return found, nil
}

func (b *BLE) connect(done <-chan struct{}) error {
	result, err := b.scan()
	if err != nil {
		return err
	}
	log := b.sink.log.WithField("address", result.Address.String())

	device, err := b.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connect %s: %w", result.Address.String(), err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{bluetooth.ServiceUUIDNordicUART})
	if err != nil || len(services) == 0 {
		device.Disconnect()
		return fmt.Errorf("discover UART service: %w", errors.Join(err, errors.New("service missing")))
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{
		bluetooth.CharacteristicUUIDUARTRX,
		bluetooth.CharacteristicUUIDUARTTX,
	})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("discover UART characteristics: %w", err)
	}

	var rx, tx *bluetooth.DeviceCharacteristic
	for i := range chars {
		switch chars[i].UUID() {
		case bluetooth.CharacteristicUUIDUARTRX:
			rx = &chars[i]
		case bluetooth.CharacteristicUUIDUARTTX:
			tx = &chars[i]
		}
	}
	if rx == nil || tx == nil {
		device.Disconnect()
		return errors.New("UART characteristics missing")
	}

	err = tx.EnableNotifications(func(buf []byte) {
		b.receive(buf, done)
	})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("enable notifications: %w", err)
	}

	log.WithField("name", result.LocalName()).Info("connected")
	b.attach(&device, rx)
	return nil
}

func (b *BLE) disconnect() {
	b.mu.Lock()
	device := b.device
	b.device = nil
	b.rx = nil
	b.mu.Unlock()

	if device != nil {
		if err := device.Disconnect(); err != nil {
			b.sink.log.WithError(err).Warn("disconnect")
		}
	}
}
