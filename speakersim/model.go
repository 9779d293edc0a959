package main

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harveysanders/picospeaker/speaker/input"
	"github.com/harveysanders/picospeaker/speaker/player"
)

// Blue backlit panel with white characters.
var lcdStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("10")).
	Foreground(lipgloss.Color("15")).
	Background(lipgloss.Color("4")).
	Padding(0, 1)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type refreshMsg time.Time

func refresh(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

// model draws the simulated LCD and turns key presses into button presses.
// The engine runs on its own goroutine; the view polls the display buffer.
type model struct {
	sim     *sim
	refresh time.Duration
}

func newModel(s *sim, refreshEvery time.Duration) model {
	return model{sim: s, refresh: refreshEvery}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("picospeaker"), refresh(m.refresh))
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		return m, refresh(m.refresh)
	case tea.KeyMsg:
		// The Down button moves the highlight towards the top of the list
		// and Up towards the bottom, so the arrow keys follow the
		// highlight rather than the button names.
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.sim.buttons.Press(input.Down)
		case "down", "j":
			m.sim.buttons.Press(input.Up)
		case "enter", " ", "space", "o":
			m.sim.buttons.Press(input.Ok)
		case "d":
			m.sim.buttons.Press(input.Down)
		case "u":
			m.sim.buttons.Press(input.Up)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder
	b.WriteString(lcdStyle.Render(strings.Join(m.sim.display.Rows(), "\n")))
	b.WriteByte('\n')
	b.WriteString(statusStyle.Render(status(m.sim.state.Snapshot())))
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("↑/k ↓/j move · enter ok · o/d/u raw buttons · q quit"))
	b.WriteByte('\n')
	return b.String()
}

func status(s player.Snapshot) string {
	var b strings.Builder
	b.WriteString("stream ")
	b.WriteString(s.Stream())
	b.WriteString("  volume ")
	b.WriteString(strconv.Itoa(s.Volume))
	b.WriteString("  channel ")
	b.WriteString(strconv.Itoa(s.Channel))
	b.WriteString("  party ")
	if s.PartyMode {
		b.WriteString("on")
	} else {
		b.WriteString("off")
	}
	return b.String()
}
