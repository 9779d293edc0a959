package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePWM struct {
	top    uint32
	values map[uint8]uint32
}

func (f *fakePWM) Top() uint32 { return f.top }

func (f *fakePWM) Set(channel uint8, value uint32) {
	if f.values == nil {
		f.values = make(map[uint8]uint32)
	}
	f.values[channel] = value
}

func TestDuty(t *testing.T) {
	tests := []struct {
		top    uint32
		volume int
		want   uint32
	}{
		{top: 1000, volume: 0, want: 0},
		{top: 1000, volume: 50, want: 500},
		{top: 1000, volume: 100, want: 1000},
		{top: 1000, volume: 130, want: 1000},
		{top: 1000, volume: -5, want: 0},
		{top: 0xffff_ffff, volume: 100, want: 0xffff_ffff},
		{top: 65535, volume: 10, want: 6553},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duty(tt.top, tt.volume), "top=%d volume=%d", tt.top, tt.volume)
	}
}

func TestVolumeBarShow(t *testing.T) {
	pwm := &fakePWM{top: 2000}
	bar := NewVolumeBar(pwm, 1)
	bar.Show(30)
	assert.Equal(t, map[uint8]uint32{1: 600}, pwm.values)
	bar.Show(100)
	assert.Equal(t, uint32(2000), pwm.values[1])
}
