// Package input reads the speaker's three front-panel buttons.
//
// A Source returns the raw state of all buttons as a Buttons bit field:
// bit 0 is Ok, bit 1 is Down and bit 2 is Up, a set bit meaning pressed.
package input

// Button identifies one of the three front-panel buttons.
type Button uint8

const (
	Ok   Button = 0
	Down Button = 1
	Up   Button = 2
)

func (b Button) String() string {
	switch b {
	case Ok:
		return "ok"
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// DispatchOrder is the order in which simultaneously pressed buttons are
// handled.
var DispatchOrder = [3]Button{Ok, Down, Up}

// Buttons is the 3-bit button state. Bits above bit 2 are ignored.
type Buttons uint8

// Mask keeps only the button bits.
const Mask Buttons = 0b111

// Pressed reports whether b is held in the state.
func (s Buttons) Pressed(b Button) bool {
	return s&(1<<b) != 0
}

// With returns the state with b pressed.
func (s Buttons) With(b Button) Buttons {
	return s | 1<<b
}

// Rising returns the buttons pressed in s that were released in prev.
func (s Buttons) Rising(prev Buttons) Buttons {
	return s &^ prev & Mask
}

// String renders the state as ok/down/up digits, e.g. "ok=1 down=0 up=0".
func (s Buttons) String() string {
	buf := []byte("ok=0 down=0 up=0")
	if s.Pressed(Ok) {
		buf[3] = '1'
	}
	if s.Pressed(Down) {
		buf[10] = '1'
	}
	if s.Pressed(Up) {
		buf[15] = '1'
	}
	return string(buf)
}

// Source reads the current button state.
type Source interface {
	Read() (Buttons, error)
}
