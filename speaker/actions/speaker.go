package actions

import (
	"io"
	"log/slog"

	"github.com/harveysanders/picospeaker/speaker/player"
)

// DefaultVolumeStep is the volume change per press, in percent.
const DefaultVolumeStep = 10

// RegisterSpeaker registers the speaker's actions on r. They change s and
// log what they did; the control loop watching s does the rest. A step of
// zero or less uses DefaultVolumeStep.
func RegisterSpeaker(r *Registry, s *player.State, volumeStep int, logger *slog.Logger) error {
	if volumeStep <= 0 {
		volumeStep = DefaultVolumeStep
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	entries := []struct {
		name string
		fn   func()
	}{
		{VolumeUp, func() {
			logger.Info("volume up", slog.Int("volume", s.AdjustVolume(volumeStep)))
		}},
		{VolumeDown, func() {
			logger.Info("volume down", slog.Int("volume", s.AdjustVolume(-volumeStep)))
		}},
		{RadioToggle, func() {
			logger.Info("radio", slog.Bool("on", s.ToggleRadio()))
		}},
		{BluetoothToggle, func() {
			logger.Info("bluetooth", slog.Bool("on", s.ToggleBluetooth()))
		}},
		{PartyModeToggle, func() {
			logger.Info("party mode", slog.Bool("on", s.TogglePartyMode()))
		}},
		{ChannelUp, func() {
			logger.Info("channel up", slog.Int("channel", s.StepChannel(1)))
		}},
		{ChannelDown, func() {
			logger.Info("channel down", slog.Int("channel", s.StepChannel(-1)))
		}},
	}
	for _, e := range entries {
		if err := r.Register(e.name, e.fn); err != nil {
			return err
		}
	}
	return nil
}
