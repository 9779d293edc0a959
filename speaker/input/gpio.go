//go:build tinygo

package input

import "machine"

// GPIO reads buttons wired straight to microcontroller pins. Pressing a
// button pulls its pin to ground.
type GPIO struct {
	pins [3]machine.Pin // indexed by Button
}

// NewGPIO configures the pins as pulled-up inputs.
func NewGPIO(ok, down, up machine.Pin) *GPIO {
	g := &GPIO{pins: [3]machine.Pin{Ok: ok, Down: down, Up: up}}
	for _, p := range g.pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return g
}

// Read samples the three pins.
func (g *GPIO) Read() (Buttons, error) {
	var s Buttons
	for b, p := range g.pins {
		if !p.Get() {
			s = s.With(Button(b))
		}
	}
	return s, nil
}
