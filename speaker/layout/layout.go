// Package layout builds the speaker's fixed set of menus and screens.
package layout

import (
	"log/slog"

	"github.com/harveysanders/picospeaker/speaker/actions"
	"github.com/harveysanders/picospeaker/speaker/menu"
	"github.com/harveysanders/picospeaker/speaker/screen"
)

// Names under which the screens are registered with the navigator.
const (
	WelcomeScreen = "welcome"
	MenuScreen    = "menu"
)

// Layout is the static screen graph: a welcome screen leading to a menu
// view over the main menu and its Clock, Radio and Bluetooth submenus.
type Layout struct {
	Tree      *menu.Tree
	Main      menu.ID
	Clock     menu.ID
	Radio     menu.ID
	Bluetooth menu.ID

	Welcome *screen.Welcome
	Menu    *screen.MenuView
}

// New builds the layout. Action items are run through invoker.
func New(invoker screen.Invoker) (*Layout, error) {
	t := menu.NewTree()
	l := &Layout{Tree: t, Main: t.Reserve()}

	volume := []menu.Item{
		menu.ActionItem("+", actions.VolumeUp),
		menu.ActionItem("-", actions.VolumeDown),
	}
	back := menu.SubmenuItem("Back", l.Main)

	l.Clock = t.Add(join(volume, []menu.Item{back})...)
	l.Radio = t.Add(join(
		[]menu.Item{
			menu.ActionItem("Radio On/Off", actions.RadioToggle),
			menu.ActionItem("Change channel up", actions.ChannelUp),
			menu.ActionItem("Change channel down", actions.ChannelDown),
		},
		volume,
		[]menu.Item{back},
	)...)
	l.Bluetooth = t.Add(join(
		[]menu.Item{
			menu.ActionItem("Bluetooth On/Off", actions.BluetoothToggle),
			menu.ActionItem("Partymode On/Off", actions.PartyModeToggle),
		},
		volume,
		[]menu.Item{back},
	)...)

	err := t.Define(l.Main,
		menu.SubmenuItem("Clock", l.Clock),
		menu.SubmenuItem("Radio", l.Radio),
		menu.SubmenuItem("Bluetooth", l.Bluetooth),
	)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	l.Menu = screen.NewMenuView(t, l.Main, invoker)
	l.Welcome = &screen.Welcome{Main: l.Menu}
	return l, nil
}

// Navigator returns a navigator on d that starts at the welcome screen.
func (l *Layout) Navigator(d screen.Display, logger *slog.Logger) *screen.Navigator {
	n := screen.NewNavigator(d, l.Welcome, logger)
	n.Register(WelcomeScreen, l.Welcome)
	n.Register(MenuScreen, l.Menu)
	return n
}

func join(parts ...[]menu.Item) []menu.Item {
	var items []menu.Item
	for _, p := range parts {
		items = append(items, p...)
	}
	return items
}
