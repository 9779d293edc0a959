package player

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Indicator displays the volume, for example on an LED.
type Indicator interface {
	Show(volume int)
}

// ControlConfig wires the outputs of the control loop. Every field is
// optional.
type ControlConfig struct {
	Period    time.Duration // Sampling period, 100ms if zero.
	Indicator Indicator
	// Snapshots receives every changed snapshot. Sends never block: a
	// snapshot is dropped if the channel is full.
	Snapshots chan<- Snapshot
	Logger    *slog.Logger
}

// Control follows s until ctx is done. Whenever the state changes it
// updates the indicator, logs a switch of the active stream and forwards
// the snapshot.
func Control(ctx context.Context, s *State, cfg ControlConfig) error {
	if cfg.Period <= 0 {
		cfg.Period = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	stream := ""
	return Watch(ctx, s, cfg.Period, func(snap Snapshot) {
		if cfg.Indicator != nil {
			cfg.Indicator.Show(snap.Volume)
		}
		if next := snap.Stream(); next != stream {
			logger.Info("stream:switch",
				slog.String("from", stream),
				slog.String("to", next),
				slog.Bool("party_mode", snap.PartyMode),
				slog.Int("channel", snap.Channel),
			)
			stream = next
		}
		if cfg.Snapshots == nil {
			return
		}
		select {
		case cfg.Snapshots <- snap:
		default:
			logger.Debug("player:snapshot-dropped", slog.Int("volume", snap.Volume))
		}
	})
}
