package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = ActionItem(string(rune('a'+i)), "noop")
	}
	return items
}

func TestSelectionClampsAtBoundaries(t *testing.T) {
	for n := 1; n <= 8; n++ {
		tree := NewTree()
		m := tree.Menu(tree.Add(labels(n)...))
		require.NotNil(t, m)

		for i := 0; i < n+3; i++ {
			m.SelectDown()
			require.GreaterOrEqual(t, m.Selected(), 0)
			require.Less(t, m.Selected(), n)
		}
		assert.Equal(t, n-1, m.Selected(), "n=%d", n)
		m.SelectDown()
		assert.Equal(t, n-1, m.Selected(), "repeated SelectDown at the end is a no-op")

		for i := 0; i < n+3; i++ {
			m.SelectUp()
			require.GreaterOrEqual(t, m.Selected(), 0)
		}
		assert.Equal(t, 0, m.Selected())
		m.SelectUp()
		assert.Equal(t, 0, m.Selected(), "repeated SelectUp at the start is a no-op")
	}
}

func TestCurrentFollowsSelection(t *testing.T) {
	tree := NewTree()
	m := tree.Menu(tree.Add(
		ActionItem("+", "volume-up"),
		ActionItem("-", "volume-down"),
		SubmenuItem("Back", None),
	))

	assert.Equal(t, "+", m.Current().Label())
	m.SelectDown()
	assert.Equal(t, "-", m.Current().Label())
	assert.Equal(t, Action, m.Current().Kind())
	assert.Equal(t, "volume-down", m.Current().Action())
	m.SelectDown()
	assert.Equal(t, Submenu, m.Current().Kind())
}

func TestEmptyMenuCurrentIsZeroItem(t *testing.T) {
	var m Menu
	m.SelectDown()
	m.SelectUp()
	assert.Equal(t, 0, m.Selected())
	assert.Equal(t, Kind(0), m.Current().Kind())
	assert.Equal(t, "invalid", m.Current().Kind().String())
}

func TestItemConstructorsMatchKind(t *testing.T) {
	sub := SubmenuItem("Radio", 3)
	assert.Equal(t, Submenu, sub.Kind())
	assert.Equal(t, ID(3), sub.Target())
	assert.Empty(t, sub.Action())
	assert.Empty(t, sub.Screen())

	act := ActionItem("Radio On/Off", "radio-toggle")
	assert.Equal(t, Action, act.Kind())
	assert.Equal(t, None, act.Target())

	scr := ScreenItem("Welcome", "welcome")
	assert.Equal(t, Screen, scr.Kind())
	assert.Equal(t, "welcome", scr.Screen())
}
