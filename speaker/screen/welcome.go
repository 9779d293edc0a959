package screen

import (
	"log/slog"

	"github.com/harveysanders/picospeaker/speaker/input"
)

var welcomeLines = [...]string{
	"Welcome",
	"Press middle button",
	"to navigate to main",
	"menu",
}

// Welcome is the boot screen. It explains how to reach the main menu and
// moves there on Ok.
type Welcome struct {
	// Main is the screen shown after Ok.
	Main Screen
}

// Render always clears and redraws the instructions. Lines that do not fit
// the display's rows are left out.
func (w *Welcome) Render(d Display, _ bool) {
	d.Clear()
	_, rows := d.Size()
	for i, line := range welcomeLines {
		if i >= rows {
			break
		}
		d.MoveCursor(0, i)
		d.WriteString(line)
	}
}

// HandleEvent switches to the main screen on Ok and ignores Up and Down.
func (w *Welcome) HandleEvent(n *Navigator, b input.Button) {
	n.Logger().Debug("welcome:button", slog.String("button", b.String()))
	if b != input.Ok || w.Main == nil {
		return
	}
	n.SetCurrent(w.Main)
	n.Render(true)
}
