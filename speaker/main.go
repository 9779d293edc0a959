//go:build tinygo

// Command speaker is the firmware of a smart speaker's front panel: a 20x4
// character LCD and three buttons (Ok, Down, Up) navigating a menu of
// playback controls.
package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/picospeaker/speaker/actions"
	"github.com/harveysanders/picospeaker/speaker/config"
	"github.com/harveysanders/picospeaker/speaker/engine"
	"github.com/harveysanders/picospeaker/speaker/input"
	"github.com/harveysanders/picospeaker/speaker/layout"
	"github.com/harveysanders/picospeaker/speaker/lcd"
	"github.com/harveysanders/picospeaker/speaker/led"
	"github.com/harveysanders/picospeaker/speaker/player"
)

// Set with -ldflags="-X main.buttonSource=gpio -X main.trigger=level".
var (
	// buttonSource is "expander" for buttons behind an MCP23017 on I2C0 or
	// "gpio" for buttons wired straight to GP10 (Ok), GP11 (Down) and
	// GP12 (Up).
	buttonSource = "expander"
	trigger      = ""
	logLevel     = ""
)

func main() {
	cfg := config.Default()
	if trigger != "" {
		cfg.Input.Trigger = trigger
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: level,
	}))
	if err := cfg.Validate(); err != nil {
		printErrForever(logger, "config", slog.String("reason", err.Error()))
	}

	err = machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		printErrForever(logger, "configure I2C", slog.String("reason", err.Error()))
	}

	display, err := lcd.Configure(machine.I2C0, cfg.Display.LCD(), logger)
	if err != nil {
		printErrForever(logger, "configure LCD", slog.String("reason", err.Error()))
	}

	buttons, err := configureButtons(cfg.Input)
	if err != nil {
		printErrForever(logger, "configure buttons", slog.String("reason", err.Error()))
	}

	state := player.NewState(cfg.Player.InitialVolume)
	registry := actions.NewRegistry()
	err = actions.RegisterSpeaker(registry, state, cfg.Player.VolumeStep, logger)
	if err != nil {
		printErrForever(logger, "register actions", slog.String("reason", err.Error()))
	}

	screens, err := layout.New(registry)
	if err != nil {
		printErrForever(logger, "build menus", slog.String("reason", err.Error()))
	}

	ctx := context.Background()

	volumeLED, err := configureVolumeLED()
	if err != nil {
		// The panel works without the indicator.
		logger.Error("configure volume LED", slog.String("reason", err.Error()))
	}
	go func() {
		control := player.ControlConfig{
			Period: cfg.Player.ControlPeriod.Std(),
			Logger: logger,
		}
		if volumeLED != nil {
			control.Indicator = volumeLED
		}
		player.Control(ctx, state, control)
	}()

	nav := screens.Navigator(display, logger)
	eng := engine.New(buttons, nav, cfg.Input.Engine(logger))
	logger.Info("speaker:ready",
		slog.String("buttons", buttonSource),
		slog.String("trigger", cfg.Input.Trigger),
		slog.Int("volume", state.Volume()),
	)
	if err := eng.Run(ctx); err != nil {
		printErrForever(logger, "engine stopped", slog.String("reason", err.Error()))
	}
}

func configureButtons(cfg config.Input) (input.Source, error) {
	if buttonSource == "gpio" {
		return input.NewGPIO(machine.GP10, machine.GP11, machine.GP12), nil
	}
	return input.NewExpander(machine.I2C0, cfg.Expander())
}

// configureVolumeLED drives an LED on GP15 (PWM slice 7, channel B) at
// 500Hz.
func configureVolumeLED() (*led.VolumeBar, error) {
	pwm := machine.PWM7
	err := pwm.Configure(machine.PWMConfig{
		Period: uint64(time.Second) / 500,
	})
	if err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(machine.GP15)
	if err != nil {
		return nil, err
	}
	return led.NewVolumeBar(pwm, ch), nil
}

// printErrForever prints a message to serial @ 1hz. It blocks forever, so
// the message is seen even when the serial monitor attaches late.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
