// Package config collects the speaker's settings.
//
// Default returns the settings baked into the firmware. On a host,
// Load reads a TOML file over the defaults.
package config

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/harveysanders/picospeaker/speaker/engine"
	"github.com/harveysanders/picospeaker/speaker/input"
	"github.com/harveysanders/picospeaker/speaker/lcd"
)

// Config is the full configuration.
type Config struct {
	Display   Display   `toml:"display"`
	Input     Input     `toml:"input"`
	Player    Player    `toml:"player"`
	Telemetry Telemetry `toml:"telemetry"`
	Log       Log       `toml:"log"`
}

// Display describes the character LCD.
type Display struct {
	Width  uint8 `toml:"width"`
	Height uint8 `toml:"height"`
	// Addresses are the I2C backpack addresses to probe, in order.
	Addresses []uint8 `toml:"addresses"`
}

// Input describes the buttons and how they are polled.
type Input struct {
	Address   uint8    `toml:"address"` // MCP23017 I2C address
	OkPin     int      `toml:"ok_pin"`
	DownPin   int      `toml:"down_pin"`
	UpPin     int      `toml:"up_pin"`
	ActiveLow bool     `toml:"active_low"`
	Poll      Duration `toml:"poll"`
	Trigger   string   `toml:"trigger"` // "edge" or "level"
}

// Player holds the playback defaults.
type Player struct {
	InitialVolume int `toml:"initial_volume"`
	VolumeStep    int `toml:"volume_step"`
	// ControlPeriod is how often the control loop samples the state.
	ControlPeriod Duration `toml:"control_period"`
}

// Telemetry configures publishing of the playback state over MQTT. An empty
// Broker disables it.
type Telemetry struct {
	Broker    string   `toml:"broker"` // host:port
	Topic     string   `toml:"topic"`
	ClientID  string   `toml:"client_id"`
	Timeout   Duration `toml:"timeout"`
	Heartbeat Duration `toml:"heartbeat"`
	// MaxRate caps publishes per second. Zero means no cap.
	MaxRate float64 `toml:"max_rate"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
	// File is where the desktop simulator writes its log.
	File string `toml:"file"`
}

// Default returns the configuration for the reference hardware: a 20x4
// LCD, the buttons on the first three pins of an MCP23017, polled every
// 100ms.
func Default() Config {
	in := input.DefaultExpanderConfig()
	disp := lcd.DefaultConfig()
	return Config{
		Display: Display{
			Width:     disp.Width,
			Height:    disp.Height,
			Addresses: disp.Addresses,
		},
		Input: Input{
			Address:   in.Address,
			OkPin:     in.OkPin,
			DownPin:   in.DownPin,
			UpPin:     in.UpPin,
			ActiveLow: in.ActiveLow,
			Poll:      Duration(engine.DefaultPeriod),
			Trigger:   engine.Edge.String(),
		},
		Player: Player{
			InitialVolume: 50,
			VolumeStep:    10,
			ControlPeriod: Duration(100 * time.Millisecond),
		},
		Telemetry: Telemetry{
			Topic:     "picospeaker/state",
			Timeout:   Duration(5 * time.Second),
			Heartbeat: Duration(30 * time.Second),
			MaxRate:   5,
		},
		Log: Log{
			Level: "info",
			File:  "picospeaker.log",
		},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Display.Width == 0 || c.Display.Height == 0:
		return errors.New("config: display width and height must be set")
	case len(c.Display.Addresses) == 0:
		return errors.New("config: no display addresses")
	case c.Input.Poll <= 0:
		return errors.New("config: input poll interval must be positive")
	case c.Player.ControlPeriod <= 0:
		return errors.New("config: player control period must be positive")
	case c.Player.InitialVolume < 0 || c.Player.InitialVolume > 100:
		return errors.New("config: initial volume out of range [0, 100]: " + strconv.Itoa(c.Player.InitialVolume))
	case c.Player.VolumeStep <= 0 || c.Player.VolumeStep > 100:
		return errors.New("config: volume step out of range (0, 100]: " + strconv.Itoa(c.Player.VolumeStep))
	case c.Telemetry.MaxRate < 0:
		return errors.New("config: telemetry max rate must not be negative")
	}
	for _, p := range []int{c.Input.OkPin, c.Input.DownPin, c.Input.UpPin} {
		if p < 0 || p > 15 {
			return errors.New("config: input pin out of range [0, 15]: " + strconv.Itoa(p))
		}
	}
	if c.Input.OkPin == c.Input.DownPin || c.Input.OkPin == c.Input.UpPin || c.Input.DownPin == c.Input.UpPin {
		return errors.New("config: buttons must use distinct pins")
	}
	if _, err := engine.ParseTrigger(c.Input.Trigger); err != nil {
		return errors.New("config: " + err.Error())
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return errors.New("config: log level: " + err.Error())
	}
	if c.Telemetry.Broker != "" && c.Telemetry.Topic == "" {
		return errors.New("config: telemetry topic must be set when a broker is")
	}
	return nil
}

// LCD returns the display driver settings.
func (d Display) LCD() lcd.Config {
	return lcd.Config{Width: d.Width, Height: d.Height, Addresses: d.Addresses}
}

// Expander returns the button expander settings.
func (in Input) Expander() input.ExpanderConfig {
	return input.ExpanderConfig{
		Address:   in.Address,
		OkPin:     in.OkPin,
		DownPin:   in.DownPin,
		UpPin:     in.UpPin,
		ActiveLow: in.ActiveLow,
	}
}

// Engine returns the navigation loop settings.
func (in Input) Engine(logger *slog.Logger) engine.Config {
	trigger, _ := engine.ParseTrigger(in.Trigger)
	return engine.Config{Period: time.Duration(in.Poll), Trigger: trigger, Logger: logger}
}

// SlogLevel parses the level name ("debug", "info", "warn", "error").
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	err := lvl.UnmarshalText([]byte(l.Level))
	return lvl, err
}

// Duration is a time.Duration written as a string such as "100ms" in
// configuration files.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
