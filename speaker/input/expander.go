package input

import (
	"errors"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mcp23017"
)

// ExpanderConfig wires the three buttons to pins of an MCP23017.
type ExpanderConfig struct {
	// Address is the I2C address of the expander (0x20-0x27).
	Address uint8
	// OkPin, DownPin and UpPin are expander pin numbers (0-15).
	OkPin, DownPin, UpPin int
	// ActiveLow enables the internal pull-ups and inverts the inputs, for
	// buttons that short the pin to ground when pressed.
	ActiveLow bool
}

// DefaultExpanderConfig has the buttons on GPA0-GPA2 of an expander at
// 0x20, in the same bit order as the Buttons field.
func DefaultExpanderConfig() ExpanderConfig {
	return ExpanderConfig{
		Address:   0x20,
		OkPin:     0,
		DownPin:   1,
		UpPin:     2,
		ActiveLow: true,
	}
}

// Expander reads the buttons from an MCP23017 I2C port expander.
type Expander struct {
	dev  *mcp23017.Device
	pins [3]int // indexed by Button
}

// NewExpander configures the button pins as inputs and returns a Source.
// The I2C bus must already be configured.
func NewExpander(bus drivers.I2C, cfg ExpanderConfig) (*Expander, error) {
	pins := [3]int{Ok: cfg.OkPin, Down: cfg.DownPin, Up: cfg.UpPin}
	for _, p := range pins {
		if p < 0 || p >= mcp23017.PinCount {
			return nil, errors.New("input: expander pin out of range")
		}
	}
	dev, err := mcp23017.NewI2C(bus, cfg.Address)
	if err != nil {
		return nil, errors.New("input: " + err.Error())
	}

	mode := mcp23017.Input
	if cfg.ActiveLow {
		mode |= mcp23017.Pullup | mcp23017.Invert
	}
	modes := make([]mcp23017.PinMode, mcp23017.PinCount)
	for i := range modes {
		modes[i] = mcp23017.Input
	}
	for _, p := range pins {
		modes[p] = mode
	}
	if err := dev.SetModes(modes); err != nil {
		return nil, errors.New("input: set expander pin modes: " + err.Error())
	}
	return &Expander{dev: dev, pins: pins}, nil
}

// Read samples all expander pins in one I2C transaction.
func (e *Expander) Read() (Buttons, error) {
	pins, err := e.dev.GetPins()
	if err != nil {
		return 0, err
	}
	var s Buttons
	for b, p := range e.pins {
		if pins.Get(p) {
			s = s.With(Button(b))
		}
	}
	return s, nil
}
