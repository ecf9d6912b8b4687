package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/storskegg/linkscope/internal/command"
	"github.com/storskegg/linkscope/internal/link"
	"github.com/storskegg/linkscope/internal/textview"
)

// eventQueueSize bounds how far the link may run ahead of the screen.
const eventQueueSize = 1024

func main() {
	cfg, err := parseConfig(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger, logCloser, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	log := logger.WithField("app", "linkscope")

	view, err := textview.NewHistoryView(cfg.Capacity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	eol, _ := command.ParseLineEnding(cfg.LineEnding) // checked by validate

	var notifier link.Notifier = soundNotifier{}
	if cfg.Quiet {
		notifier = nil
	}
	connState := link.NewConnectionState(notifier)
	pause := &link.PauseSwitch{}
	events := make(chan textview.Event, eventQueueSize)

	var dev link.Link
	if cfg.BLEName != "" {
		dev = link.NewBLE(link.BLEConfig{DeviceName: cfg.BLEName, MTU: cfg.MTU}, events, connState, pause, log)
	} else {
		dev = link.NewSerial(link.SerialConfig{Port: cfg.Port, BaudRate: cfg.BaudRate}, events, connState, pause, log)
	}
	log.WithField("link", dev.Name()).Info("starting")

	// Done channel for graceful shutdown
	done := make(chan struct{})
	go dev.Run(done)

	// Initialize screen
	s, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := s.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	defer s.Fini()

	s.SetStyle(tcell.StyleDefault)
	s.EnableMouse()

	a := &app{
		screen: s,
		view:   view,
		events: events,
		link:   dev,
		state:  connState,
		pause:  pause,
		sender: command.Sender{LineEnding: eol},
		table:  cfg.Commands,
		log:    log,
	}

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Refresh))
	defer ticker.Stop()

	a.draw()

	// Event loop. Link events are drained into the view before every draw.
	quit := false
	for !quit {
		select {
		case <-ticker.C:
			a.drainEvents()
			a.draw()

		case <-sigChan:
			quit = true

		default:
			if !s.HasPendingEvent() {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			switch ev := s.PollEvent().(type) {
			case *tcell.EventKey:
				quit = a.handleKeyboardEvent(ev)
			case *tcell.EventMouse:
				a.handleMouseEvent(ev)
			case *tcell.EventResize:
				s.Sync()
			}
			if !quit {
				a.drainEvents()
				a.draw()
			}
		}
	}

	close(done)
	log.Info("stopped")
}
