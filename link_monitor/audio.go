package main

import (
	"time"

	"github.com/gen2brain/beeep"
)

// soundNotifier plays connection sounds. Every sound runs in its own
// goroutine so the link never waits on the speaker.
type soundNotifier struct{}

func (soundNotifier) Disconnected() {
	go func() {
		// Low frequency, longer duration - ominous
		beeep.Beep(400, 300)
	}()
}

func (soundNotifier) RetryFailed() {
	go func() {
		// Mid frequency, short blip
		beeep.Beep(600, 100)
	}()
}

func (soundNotifier) Connected() {
	go func() {
		// Ascending two-tone success melody
		beeep.Beep(600, 150)
		time.Sleep(50 * time.Millisecond)
		beeep.Beep(800, 150)
	}()
}
