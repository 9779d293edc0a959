package menu

import (
	"errors"
	"strconv"
)

// ID addresses a Menu inside a Tree. The zero ID refers to no menu.
type ID int

// None is the absent menu.
const None ID = 0

var (
	// ErrUndefined is returned for IDs that were reserved but never defined,
	// or that the tree never handed out.
	ErrUndefined = errors.New("menu: undefined menu")
	// ErrRedefined is returned when Define is called twice for one ID.
	ErrRedefined = errors.New("menu: menu already defined")
	// ErrEmpty is returned for menus without items.
	ErrEmpty = errors.New("menu: menu has no items")
)

// Error carries the offending menu ID alongside one of the sentinel errors.
type Error struct {
	Err    error
	ID     ID
	Detail string
}

func (e *Error) Error() string {
	msg := e.Err.Error() + " " + strconv.Itoa(int(e.ID))
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Tree is an arena of menus. Menus are added once at startup and never
// removed or resized, so IDs stay valid for the lifetime of the tree.
type Tree struct {
	menus   []Menu
	defined []bool
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Reserve hands out an ID whose items are supplied later with Define. It is
// how a menu is referenced before it exists, e.g. the parent targeted by
// the "Back" item of its own children.
func (t *Tree) Reserve() ID {
	t.menus = append(t.menus, Menu{})
	t.defined = append(t.defined, false)
	return ID(len(t.menus))
}

// Define sets the items of a reserved menu.
func (t *Tree) Define(id ID, items ...Item) error {
	if !t.valid(id) {
		return &Error{Err: ErrUndefined, ID: id}
	}
	if t.defined[id-1] {
		return &Error{Err: ErrRedefined, ID: id}
	}
	t.menus[id-1] = Menu{items: append([]Item(nil), items...)}
	t.defined[id-1] = true
	return nil
}

// Add appends a menu with the given items and returns its ID.
func (t *Tree) Add(items ...Item) ID {
	id := t.Reserve()
	t.menus[id-1] = Menu{items: append([]Item(nil), items...)}
	t.defined[id-1] = true
	return id
}

// Menu returns the menu for id, or nil if the tree has no such menu.
func (t *Tree) Menu(id ID) *Menu {
	if !t.valid(id) || !t.defined[id-1] {
		return nil
	}
	return &t.menus[id-1]
}

// Len returns the number of menus in the tree.
func (t *Tree) Len() int { return len(t.menus) }

// Validate reports the first structural problem in the tree: a reserved
// menu that was never defined, a menu without items, or a submenu item
// whose target is not in the tree.
func (t *Tree) Validate() error {
	for i := range t.menus {
		id := ID(i + 1)
		if !t.defined[i] {
			return &Error{Err: ErrUndefined, ID: id}
		}
		m := &t.menus[i]
		if m.Len() == 0 {
			return &Error{Err: ErrEmpty, ID: id}
		}
		for j := range m.items {
			it := m.items[j]
			if it.kind != Submenu || it.menu == None {
				continue
			}
			if t.Menu(it.menu) == nil {
				return &Error{
					Err:    ErrUndefined,
					ID:     it.menu,
					Detail: "item " + strconv.Quote(it.label) + " of menu " + strconv.Itoa(int(id)),
				}
			}
		}
	}
	return nil
}

func (t *Tree) valid(id ID) bool {
	return id > None && int(id) <= len(t.menus)
}
