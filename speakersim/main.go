// Command speakersim runs the speaker's front panel in a terminal. The LCD
// is drawn as text and the keyboard stands in for the three buttons. The
// playback state can be published to an MQTT broker like the device would.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/harveysanders/picospeaker/speaker/config"
	"github.com/harveysanders/picospeaker/speaker/player"
	"github.com/harveysanders/picospeaker/speaker/telemetry"
)

type options struct {
	configPath string
	cols, rows uint8
	trigger    string
	broker     string
	logFile    string
	logLevel   string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:   "speakersim",
		Short: "Smart speaker front panel simulator",
		Long: `Simulates the speaker's 20x4 LCD menu in the terminal.

  Keys:
    up/k, down/j   move the highlight
    enter/space    Ok
    o, d, u        press the Ok, Down or Up button directly
    q              quit

  Examples:
    speakersim
    speakersim --trigger level --rows 2 --cols 16
    speakersim --mqtt localhost:1883 --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	f := root.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	f.Uint8Var(&opts.cols, "cols", 20, "display columns")
	f.Uint8Var(&opts.rows, "rows", 4, "display rows")
	f.StringVarP(&opts.trigger, "trigger", "t", "edge", `button trigger, "edge" or "level"`)
	f.StringVar(&opts.broker, "mqtt", "", "publish the playback state to this MQTT broker (host:port)")
	f.StringVar(&opts.logFile, "log-file", "", "log file (default from config: picospeaker.log)")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	root.SilenceUsage = true
	return root
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set on the command line.
func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.Config{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("cols") {
		cfg.Display.Width = opts.cols
	}
	if flags.Changed("rows") {
		cfg.Display.Height = opts.rows
	}
	if flags.Changed("trigger") {
		cfg.Input.Trigger = opts.trigger
	}
	if flags.Changed("mqtt") {
		cfg.Telemetry.Broker = opts.broker
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The terminal belongs to the TUI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	s, err := newSim(cfg, logger)
	if err != nil {
		return err
	}

	control := player.ControlConfig{
		Period: cfg.Player.ControlPeriod.Std(),
		Logger: logger,
	}
	if cfg.Telemetry.Broker != "" {
		snapshots := make(chan player.Snapshot, 8)
		control.Snapshots = snapshots
		go publish(ctx, cfg.Telemetry, logger, snapshots)
	}
	go player.Control(ctx, s.state, control)
	go s.engine.Run(ctx)

	p := tea.NewProgram(newModel(s, 50*time.Millisecond), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("speakersim:exit", slog.Any("state", s.state.Snapshot()))
	return nil
}

func publish(ctx context.Context, cfg config.Telemetry, logger *slog.Logger, snapshots <-chan player.Snapshot) {
	c := &telemetry.Client{
		ID:                cfg.ClientID,
		Topic:             cfg.Topic,
		Timeout:           cfg.Timeout.Std(),
		HeartbeatInterval: cfg.Heartbeat.Std(),
		Logger:            logger.With(slog.String("broker", cfg.Broker)),
	}
	if cfg.MaxRate > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(cfg.MaxRate), 1)
	}
	dial := func(ctx context.Context) (telemetry.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", cfg.Broker)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	if err := c.Run(ctx, dial, snapshots); err != nil && ctx.Err() == nil {
		logger.Error("telemetry:stopped", slog.String("reason", err.Error()))
	}
}
