// Package menu holds the menus shown on the speaker's character LCD.
//
// Menus live in a Tree and refer to each other through stable IDs, so a
// shared parent (the "Back" target of several submenus) is just another ID.
package menu

// Kind tells what selecting an Item does.
type Kind uint8

const (
	// Submenu items rebind the view to another menu.
	Submenu Kind = iota + 1
	// Action items invoke a named entry of the action registry.
	Action
	// Screen items replace the current screen.
	Screen
)

func (k Kind) String() string {
	switch k {
	case Submenu:
		return "submenu"
	case Action:
		return "action"
	case Screen:
		return "screen"
	default:
		return "invalid"
	}
}

// Item is a single selectable row of a Menu. Items are immutable; build
// them with SubmenuItem, ActionItem or ScreenItem so the payload always
// matches the kind.
type Item struct {
	kind   Kind
	label  string
	menu   ID
	action string
	screen string
}

// SubmenuItem returns an item that opens the menu target.
func SubmenuItem(label string, target ID) Item {
	return Item{kind: Submenu, label: label, menu: target}
}

// ActionItem returns an item that invokes the registry entry name.
func ActionItem(label, name string) Item {
	return Item{kind: Action, label: label, action: name}
}

// ScreenItem returns an item that switches to the screen called name.
func ScreenItem(label, name string) Item {
	return Item{kind: Screen, label: label, screen: name}
}

func (it Item) Kind() Kind { return it.kind }

func (it Item) Label() string { return it.label }

// Target is the menu opened by a Submenu item.
func (it Item) Target() ID { return it.menu }

// Action is the registry name invoked by an Action item.
func (it Item) Action() string { return it.action }

// Screen is the name of the screen shown by a Screen item.
func (it Item) Screen() string { return it.screen }

// Menu is an ordered, fixed-size list of items plus the selected row.
// The selection is the only mutable state and is always a valid index.
type Menu struct {
	items    []Item
	selected int
}

// Len returns the number of items.
func (m *Menu) Len() int { return len(m.items) }

// Item returns the item at i.
func (m *Menu) Item(i int) Item { return m.items[i] }

// Selected returns the selected index.
func (m *Menu) Selected() int { return m.selected }

// Current returns the selected item. An empty menu yields the zero Item,
// which every screen ignores.
func (m *Menu) Current() Item {
	if len(m.items) == 0 {
		return Item{}
	}
	return m.items[m.selected]
}

// SelectUp moves the selection towards index 0. It stops at the first item.
func (m *Menu) SelectUp() {
	if m.selected > 0 {
		m.selected--
	}
}

// SelectDown moves the selection towards the last item. It stops at the
// last item.
func (m *Menu) SelectDown() {
	if m.selected < len(m.items)-1 {
		m.selected++
	}
}
