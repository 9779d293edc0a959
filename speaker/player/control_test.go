package player

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndicator struct {
	mu      sync.Mutex
	volumes []int
}

func (r *recordingIndicator) Show(volume int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volumes = append(r.volumes, volume)
}

func (r *recordingIndicator) last() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.volumes) == 0 {
		return -1
	}
	return r.volumes[len(r.volumes)-1]
}

// syncBuffer guards a bytes.Buffer shared with the control goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func nextSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("no snapshot")
		return Snapshot{}
	}
}

func TestControl(t *testing.T) {
	s := NewState(50)
	ind := &recordingIndicator{}
	snaps := make(chan Snapshot, 8)
	var logs syncBuffer

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Control(ctx, s, ControlConfig{
			Period:    time.Millisecond,
			Indicator: ind,
			Snapshots: snaps,
			Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
		})
	}()

	first := nextSnapshot(t, snaps)
	assert.Equal(t, StreamIdle, first.Stream())
	s.ToggleRadio()
	assert.True(t, nextSnapshot(t, snaps).Radio)
	s.AdjustVolume(20)
	require.Eventually(t, func() bool { return ind.last() == 70 }, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	out := logs.String()
	assert.Equal(t, 2, strings.Count(out, "stream:switch"), out)
	assert.Contains(t, out, "to="+StreamRadio)
}

func TestControlDropsWhenFull(t *testing.T) {
	s := NewState(50)
	snaps := make(chan Snapshot) // nobody reads
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Control(ctx, s, ControlConfig{Period: time.Millisecond, Snapshots: snaps})
	}()
	s.ToggleBluetooth()
	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Control blocked on a full channel")
	}
}
