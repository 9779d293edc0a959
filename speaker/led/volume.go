// Package led shows the speaker volume on an LED driven by PWM.
package led

import "github.com/harveysanders/picospeaker/speaker/player"

// PWM is a configured PWM slice. It is notably implemented by the RP2040
// PWM groups (machine.PWM0 ... machine.PWM7).
type PWM interface {
	Top() uint32
	Set(channel uint8, value uint32)
}

// VolumeBar sets an LED's brightness proportional to the volume.
type VolumeBar struct {
	pwm     PWM
	channel uint8
}

// NewVolumeBar drives channel of pwm. The PWM must already be configured
// and its channel bound to the LED pin.
func NewVolumeBar(pwm PWM, channel uint8) *VolumeBar {
	return &VolumeBar{pwm: pwm, channel: channel}
}

// Show sets the brightness for volume, in percent. Values outside
// [player.MinVolume, player.MaxVolume] are clamped.
func (v *VolumeBar) Show(volume int) {
	v.pwm.Set(v.channel, Duty(v.pwm.Top(), volume))
}

// Duty converts a volume in percent to a duty cycle for a PWM counting up
// to top.
func Duty(top uint32, volume int) uint32 {
	volume = min(max(volume, player.MinVolume), player.MaxVolume)
	return uint32(uint64(top) * uint64(volume) / player.MaxVolume)
}
