package main

import (
	"log/slog"

	"github.com/harveysanders/picospeaker/speaker/actions"
	"github.com/harveysanders/picospeaker/speaker/config"
	"github.com/harveysanders/picospeaker/speaker/engine"
	"github.com/harveysanders/picospeaker/speaker/input"
	"github.com/harveysanders/picospeaker/speaker/layout"
	"github.com/harveysanders/picospeaker/speaker/lcd"
	"github.com/harveysanders/picospeaker/speaker/player"
	"github.com/harveysanders/picospeaker/speaker/screen"
)

// sim is the speaker's front panel with the LCD replaced by an in-memory
// buffer and the buttons by a latch fed from the keyboard.
type sim struct {
	display *lcd.Buffer
	buttons *input.Latch
	state   *player.State
	nav     *screen.Navigator
	engine  *engine.Engine
}

func newSim(cfg config.Config, logger *slog.Logger) (*sim, error) {
	s := &sim{
		display: lcd.NewBuffer(int(cfg.Display.Width), int(cfg.Display.Height)),
		buttons: &input.Latch{},
		state:   player.NewState(cfg.Player.InitialVolume),
	}
	registry := actions.NewRegistry()
	if err := actions.RegisterSpeaker(registry, s.state, cfg.Player.VolumeStep, logger); err != nil {
		return nil, err
	}
	l, err := layout.New(registry)
	if err != nil {
		return nil, err
	}
	s.nav = l.Navigator(s.display, logger)
	s.engine = engine.New(s.buttons, s.nav, cfg.Input.Engine(logger))
	return s, nil
}
