package link

import (
	"sync"
	"time"
)

// Notifier is told about connection changes, e.g. to play a sound.
type Notifier interface {
	Connected()
	Disconnected()
	RetryFailed()
}

type nopNotifier struct{}

func (nopNotifier) Connected() {}
func (nopNotifier) Disconnected() {}
func (nopNotifier) RetryFailed() {}

// ConnectionState tracks link connection status
type ConnectionState struct {
	mu            sync.RWMutex
	connected     bool
	lastErrorTime time.Time
	lastError     error
	totalAttempts int
	notifier      Notifier
}

func NewConnectionState(n Notifier) *ConnectionState {
	if n == nil {
		n = nopNotifier{}
	}
	return &ConnectionState{notifier: n}
}

func (cs *ConnectionState) SetConnected(connected bool) {
	cs.mu.Lock()
	was := cs.connected
	cs.connected = connected
	if connected {
		cs.totalAttempts = 0
	}
	cs.mu.Unlock()

	if connected && !was {
		cs.notifier.Connected()
	}
}

// SetError records a failed connection attempt or a lost connection.
func (cs *ConnectionState) SetError(err error) {
	cs.mu.Lock()
	was := cs.connected
	cs.connected = false
	cs.lastErrorTime = time.Now()
	cs.lastError = err
	cs.totalAttempts++
	cs.mu.Unlock()

	// Only the first failure after a connection sounds like a disconnect
	if was {
		cs.notifier.Disconnected()
	} else {
		cs.notifier.RetryFailed()
	}
}

func (cs *ConnectionState) GetStatus() (bool, time.Time, int) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.connected, cs.lastErrorTime, cs.totalAttempts
}

func (cs *ConnectionState) LastError() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastError
}

// PauseSwitch drops inbound data while set.
type PauseSwitch struct {
	mu     sync.RWMutex
	paused bool
}

func (p *PauseSwitch) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	return p.paused
}

func (p *PauseSwitch) IsPaused() bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.paused
}
