// Package actions is the registry of named operations that leaf menu items
// invoke.
//
// Actions are fire-and-forget: they take no arguments, return nothing, and
// any failure is the concern of the subsystem behind the action. They must
// not block, since they run on the navigation loop.
package actions

import (
	"errors"
	"sort"
)

// Names of the speaker's actions. Menu items refer to actions by these
// names.
const (
	VolumeUp        = "volume-up"
	VolumeDown      = "volume-down"
	RadioToggle     = "radio-toggle"
	BluetoothToggle = "bluetooth-toggle"
	PartyModeToggle = "party-mode-toggle"
	ChannelUp       = "channel-up"
	ChannelDown     = "channel-down"
)

var (
	ErrDuplicate = errors.New("actions: action already registered")
	ErrEmptyName = errors.New("actions: empty action name")
	ErrNilFunc   = errors.New("actions: nil action")
)

// Registry maps names to actions. Register everything at startup; lookups
// afterwards are read-only.
type Registry struct {
	entries map[string]func()
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]func())}
}

// Register adds fn under name.
func (r *Registry) Register(name string, fn func()) error {
	switch {
	case name == "":
		return ErrEmptyName
	case fn == nil:
		return &nameError{err: ErrNilFunc, name: name}
	}
	if _, ok := r.entries[name]; ok {
		return &nameError{err: ErrDuplicate, name: name}
	}
	r.entries[name] = fn
	return nil
}

// Lookup returns the action registered as name.
func (r *Registry) Lookup(name string) (func(), bool) {
	fn, ok := r.entries[name]
	return fn, ok
}

// Invoke runs the action registered as name and reports whether there was
// one.
func (r *Registry) Invoke(name string) bool {
	fn, ok := r.entries[name]
	if !ok {
		return false
	}
	fn()
	return true
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nameError attaches the offending action name to a sentinel error.
type nameError struct {
	err  error
	name string
}

func (e *nameError) Error() string { return e.err.Error() + ": " + e.name }
func (e *nameError) Unwrap() error { return e.err }
