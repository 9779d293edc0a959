// Package player holds the playback state shared between the menu's action
// callbacks and the control loop that reacts to it.
//
// Every field is a separate atomic value. Writers (menu actions) and the
// reader (the control loop) never wait on each other; the reader samples
// periodically, so it may see a change one control tick late, and it may
// observe two fields changed by one action in different ticks.
package player

import (
	"context"
	"sync/atomic"
	"time"
)

// Volume bounds in percent.
const (
	MinVolume = 0
	MaxVolume = 100
)

// State is the playback state. The zero value is silent with every source
// off; use NewState to start at another volume.
type State struct {
	bluetooth atomic.Bool
	partyMode atomic.Bool
	radio     atomic.Bool
	volume    atomic.Int32
	channel   atomic.Int32
}

// NewState returns a state at the given volume, clamped to
// [MinVolume, MaxVolume].
func NewState(volume int) *State {
	s := &State{}
	s.volume.Store(int32(clampVolume(volume)))
	return s
}

// ToggleBluetooth flips the Bluetooth sink flag and returns the new value.
func (s *State) ToggleBluetooth() bool { return toggle(&s.bluetooth) }

// TogglePartyMode flips the party mode flag and returns the new value.
func (s *State) TogglePartyMode() bool { return toggle(&s.partyMode) }

// ToggleRadio flips the radio flag and returns the new value.
func (s *State) ToggleRadio() bool { return toggle(&s.radio) }

func (s *State) Bluetooth() bool { return s.bluetooth.Load() }
func (s *State) PartyMode() bool { return s.partyMode.Load() }
func (s *State) Radio() bool     { return s.radio.Load() }

// Volume returns the volume in percent.
func (s *State) Volume() int { return int(s.volume.Load()) }

// AdjustVolume adds delta to the volume, clamping the result to
// [MinVolume, MaxVolume], and returns the new volume.
func (s *State) AdjustVolume(delta int) int {
	for {
		old := s.volume.Load()
		v := int32(clampVolume(int(old) + delta))
		if s.volume.CompareAndSwap(old, v) {
			return int(v)
		}
	}
}

// Channel returns the radio channel number.
func (s *State) Channel() int { return int(s.channel.Load()) }

// StepChannel moves the radio channel by delta and returns the new channel.
func (s *State) StepChannel(delta int) int {
	return int(s.channel.Add(int32(delta)))
}

// Snapshot reads every field. The fields are read one at a time, not as a
// single atomic unit.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Bluetooth: s.Bluetooth(),
		PartyMode: s.PartyMode(),
		Radio:     s.Radio(),
		Volume:    s.Volume(),
		Channel:   s.Channel(),
	}
}

// Snapshot is a copy of the state at one point in time.
type Snapshot struct {
	Bluetooth bool `json:"bluetooth"`
	PartyMode bool `json:"party_mode"`
	Radio     bool `json:"radio"`
	Volume    int  `json:"volume"`
	Channel   int  `json:"channel"`
}

// Audio sources reported by Snapshot.Stream.
const (
	StreamIdle      = "idle"
	StreamRadio     = "radio"
	StreamBluetooth = "bluetooth"
)

// Stream names the audio source that should be playing. The Bluetooth sink
// takes over the output from the radio while it is on.
func (s Snapshot) Stream() string {
	switch {
	case s.Bluetooth:
		return StreamBluetooth
	case s.Radio:
		return StreamRadio
	default:
		return StreamIdle
	}
}

// Watch samples s every period and calls fn with the first snapshot and
// with every snapshot that differs from the previous one. It returns when
// ctx is done.
func Watch(ctx context.Context, s *State, period time.Duration, fn func(Snapshot)) error {
	last := s.Snapshot()
	fn(last)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			curr := s.Snapshot()
			if curr != last {
				last = curr
				fn(curr)
			}
		}
	}
}

func toggle(b *atomic.Bool) bool {
	for {
		old := b.Load()
		if b.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func clampVolume(v int) int {
	return min(max(v, MinVolume), MaxVolume)
}
