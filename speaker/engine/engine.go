// Package engine runs the navigation loop: it polls the buttons, turns
// presses into events for the current screen, and lets the screen redraw.
package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/harveysanders/picospeaker/speaker/input"
	"github.com/harveysanders/picospeaker/speaker/screen"
)

// DefaultPeriod is the button polling interval.
const DefaultPeriod = 100 * time.Millisecond

// Trigger selects which samples produce button events.
//
// Level is how the panel firmware has always dispatched buttons. Edge is
// the default because Level re-fires a button that is still held whenever
// another one changes; select Level to keep the old behaviour.
type Trigger uint8

const (
	// Edge fires a button once when it goes from released to pressed.
	// This is the default.
	Edge Trigger = iota
	// Level fires every pressed button whenever the combined reading of
	// the three buttons changes, so holding one button and pressing
	// another fires both.
	Level
)

var errUnknownTrigger = errors.New("engine: unknown trigger, want \"edge\" or \"level\"")

// ParseTrigger parses "edge" or "level". The empty string is Edge.
func ParseTrigger(s string) (Trigger, error) {
	switch s {
	case "", "edge":
		return Edge, nil
	case "level":
		return Level, nil
	}
	return Edge, errUnknownTrigger
}

func (t Trigger) String() string {
	if t == Level {
		return "level"
	}
	return "edge"
}

// Config tunes an Engine. The zero value polls every DefaultPeriod with
// edge triggering and no logging.
type Config struct {
	Period  time.Duration
	Trigger Trigger
	Logger  *slog.Logger
}

// Engine polls a button source and dispatches presses to a navigator.
// An Engine is not safe for concurrent use; run it on one goroutine.
type Engine struct {
	src     input.Source
	nav     *screen.Navigator
	period  time.Duration
	trigger Trigger
	logger  *slog.Logger

	prev   input.Buttons
	primed bool
}

// New returns an engine reading src and driving nav.
func New(src input.Source, nav *screen.Navigator, cfg Config) *Engine {
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		src:     src,
		nav:     nav,
		period:  cfg.Period,
		trigger: cfg.Trigger,
		logger:  cfg.Logger,
	}
}

// Run draws the current screen and then polls the buttons every period
// until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	e.nav.Render(true)
	ticker := time.NewTicker(e.period)
	defer ticker.Stop()
	for {
		e.Tick()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick samples the buttons once. If the reading differs from the previous
// one it is logged and the pressed buttons are dispatched in the order Ok,
// Down, Up. A failed read is logged and leaves the previous reading in
// place.
func (e *Engine) Tick() {
	s, err := e.src.Read()
	if err != nil {
		e.logger.Error("buttons:read", slog.String("err", err.Error()))
		return
	}
	s &= input.Mask
	if e.primed && s == e.prev {
		return
	}
	e.logger.Info("buttons",
		slog.Bool("up", s.Pressed(input.Up)),
		slog.Bool("down", s.Pressed(input.Down)),
		slog.Bool("ok", s.Pressed(input.Ok)),
	)

	fire := s
	if e.trigger == Edge {
		fire = s.Rising(e.prev)
	}
	e.prev = s
	e.primed = true

	for _, b := range input.DispatchOrder {
		if fire.Pressed(b) {
			e.nav.Dispatch(b)
		}
	}
}
