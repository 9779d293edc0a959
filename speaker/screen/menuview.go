package screen

import (
	"log/slog"

	"github.com/harveysanders/picospeaker/speaker/input"
	"github.com/harveysanders/picospeaker/speaker/menu"
)

// Indicator marks the selected row of a menu.
const Indicator = "-"

// Invoker runs named actions. It reports false when name is not registered.
type Invoker interface {
	Invoke(name string) bool
}

// MenuView shows one menu of a tree and lets the buttons move through it.
type MenuView struct {
	tree    *menu.Tree
	menu    menu.ID
	actions Invoker
}

// NewMenuView returns a view bound to the menu root of tree. Action items
// are run through actions.
func NewMenuView(tree *menu.Tree, root menu.ID, actions Invoker) *MenuView {
	return &MenuView{tree: tree, menu: root, actions: actions}
}

// Menu returns the ID of the menu currently shown.
func (v *MenuView) Menu() menu.ID { return v.menu }

// Bind shows another menu of the tree. The menu keeps its own selection.
func (v *MenuView) Bind(id menu.ID) {
	if v.tree.Menu(id) == nil {
		return
	}
	v.menu = id
}

// Render draws the visible rows of the bound menu, the selected one marked
// with Indicator.
func (v *MenuView) Render(d Display, redraw bool) {
	if redraw {
		d.Clear()
	}
	m := v.tree.Menu(v.menu)
	if m == nil {
		return
	}
	_, rows := d.Size()
	sel := m.Selected()
	start, end := Viewport(m.Len(), sel, rows)
	for i := start; i < end; i++ {
		d.MoveCursor(0, i-start)
		if i == sel {
			d.WriteString(Indicator)
		} else {
			d.WriteString(" ")
		}
		d.WriteString(m.Item(i).Label())
	}
}

// HandleEvent moves the selection or activates the selected item. The Down
// button moves towards the first item and Up towards the last, matching the
// orientation of the buttons on the front panel.
func (v *MenuView) HandleEvent(n *Navigator, b input.Button) {
	log := n.Logger()
	log.Debug("menu:button", slog.String("button", b.String()))
	m := v.tree.Menu(v.menu)
	if m == nil {
		return
	}
	switch b {
	case input.Down:
		m.SelectUp()
	case input.Up:
		m.SelectDown()
	case input.Ok:
		v.activate(n, m.Current())
	default:
		return
	}
	n.Render(true)
}

// activate runs the selected item. Items without a usable payload do
// nothing.
func (v *MenuView) activate(n *Navigator, it menu.Item) {
	log := n.Logger()
	switch it.Kind() {
	case menu.Submenu:
		if v.tree.Menu(it.Target()) == nil {
			log.Debug("menu:no-submenu", slog.String("item", it.Label()))
			return
		}
		v.menu = it.Target()
	case menu.Action:
		if it.Action() == "" || v.actions == nil || !v.actions.Invoke(it.Action()) {
			log.Debug("menu:no-action", slog.String("item", it.Label()), slog.String("action", it.Action()))
		}
	case menu.Screen:
		s, ok := n.Lookup(it.Screen())
		if !ok {
			log.Debug("menu:no-screen", slog.String("item", it.Label()), slog.String("screen", it.Screen()))
			return
		}
		n.SetCurrent(s)
	default:
		log.Debug("menu:invalid-item", slog.String("item", it.Label()))
	}
}
