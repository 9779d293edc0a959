// Package screen renders the speaker's screens on a character display and
// routes button events to the one screen that is current.
package screen

import (
	"io"
	"log/slog"

	"github.com/harveysanders/picospeaker/speaker/input"
)

// Display is a character display: a grid of fixed-width text cells.
type Display interface {
	// Clear blanks the display and homes the cursor.
	Clear()
	// MoveCursor positions the cursor at column col of row row.
	MoveCursor(col, row int)
	// WriteString writes s from the cursor towards the right. Text past the
	// last column is dropped.
	WriteString(s string)
	// Size returns the number of columns and rows.
	Size() (cols, rows int)
}

// Screen is one unit of display state.
type Screen interface {
	// Render draws the screen. Screens that draw over their previous
	// contents clear the display first when redraw is set.
	Render(d Display, redraw bool)
	// HandleEvent reacts to a button press. Screens change the current
	// screen and trigger redraws through n.
	HandleEvent(n *Navigator, b input.Button)
}

// Navigator owns the current screen. Exactly one screen is current at any
// time, and switching it is the only way screens affect each other.
type Navigator struct {
	display Display
	current Screen
	screens map[string]Screen
	logger  *slog.Logger
}

// NewNavigator returns a navigator showing start on d. A nil logger
// discards log output.
func NewNavigator(d Display, start Screen, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Navigator{
		display: d,
		current: start,
		screens: make(map[string]Screen),
		logger:  logger,
	}
}

// Register makes s reachable from menu items that name it.
func (n *Navigator) Register(name string, s Screen) {
	n.screens[name] = s
}

// Lookup returns the screen registered as name.
func (n *Navigator) Lookup(name string) (Screen, bool) {
	s, ok := n.screens[name]
	return s, ok && s != nil
}

// Current returns the current screen.
func (n *Navigator) Current() Screen { return n.current }

// SetCurrent replaces the current screen without drawing it.
func (n *Navigator) SetCurrent(s Screen) {
	if s == nil {
		return
	}
	n.current = s
}

// Render draws the current screen.
func (n *Navigator) Render(redraw bool) {
	n.current.Render(n.display, redraw)
}

// Dispatch hands a button press to the current screen.
func (n *Navigator) Dispatch(b input.Button) {
	n.current.HandleEvent(n, b)
}

// Logger returns the navigator's logger.
func (n *Navigator) Logger() *slog.Logger { return n.logger }
