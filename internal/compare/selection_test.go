package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetToggleAndOrder(t *testing.T) {
	s := NewSet("a", "b", "a", "", "c")
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())

	assert.False(t, s.Toggle("b"))
	assert.Equal(t, []string{"a", "c"}, s.IDs())

	assert.True(t, s.Toggle("b"))
	assert.Equal(t, []string{"a", "c", "b"}, s.IDs())
	assert.Equal(t, 3, s.Len())
}

func TestSetRemoveKeepsOrder(t *testing.T) {
	s := NewSet("d", "a", "c", "b")
	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, []string{"d", "c", "b"}, s.IDs())
}

func TestClickOutsideCompareOpensDetail(t *testing.T) {
	sel := NewSelection()
	sel.Click("a")
	id, ok := sel.Detail()
	assert.True(t, ok)
	assert.Equal(t, "a", id)
	assert.Empty(t, sel.Compared())
}

func TestCompareRoundTripLeavesNoStaleDetail(t *testing.T) {
	sel := NewSelection()
	sel.Click("a")

	sel.EnterCompare()
	_, ok := sel.Detail()
	assert.False(t, ok)

	sel.Click("a")
	assert.Equal(t, []string{"a"}, sel.Compared())

	sel.ExitCompare()
	_, ok = sel.Detail()
	assert.False(t, ok, "detail view must not show the pre-compare selection")
	assert.Empty(t, sel.Compared())
}

func TestClickInCompareToggles(t *testing.T) {
	sel := NewSelection()
	sel.ToggleCompare()
	assert.True(t, sel.Comparing())

	sel.Click("a")
	sel.Click("b")
	sel.Click("c")
	sel.Click("b")
	assert.Equal(t, []string{"a", "c"}, sel.Compared())

	sel.Remove("a")
	assert.Equal(t, []string{"c"}, sel.Compared())

	sel.ToggleCompare()
	assert.False(t, sel.Comparing())
	assert.Empty(t, sel.Compared())
}

func TestFocusLeavesCompareMode(t *testing.T) {
	sel := NewSelection()
	sel.EnterCompare()
	sel.Click("x")

	sel.Focus("y")
	assert.False(t, sel.Comparing())
	id, ok := sel.Detail()
	assert.True(t, ok)
	assert.Equal(t, "y", id)
	assert.Empty(t, sel.Compared())
}

func TestForget(t *testing.T) {
	sel := NewSelection()
	sel.Click("a")
	sel.Forget("a")
	_, ok := sel.Detail()
	assert.False(t, ok)
}
