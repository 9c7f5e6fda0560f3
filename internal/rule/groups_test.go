package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroups(t *testing.T) {
	t.Parallel()

	t.Run("flat normalizes into the default group", func(t *testing.T) {
		g := Flat("a.js", "b.js")
		assert.Equal(t, []string{DefaultGroup}, g.Names())
		assert.Equal(t, []string{"a.js", "b.js"}, g.Default())
		assert.Equal(t, []string{"a.js", "b.js"}, g.All())
	})

	t.Run("empty flat is the zero value", func(t *testing.T) {
		assert.True(t, Flat().IsZero())
		assert.Nil(t, Flat().Names())
	})

	t.Run("named preserves declaration order", func(t *testing.T) {
		g := Named([]string{"dll", "manifest"}, map[string][]string{
			"manifest": {"m.json"},
			"dll":      {"v.js"},
		})
		assert.Equal(t, []string{"dll", "manifest"}, g.Names())
		assert.Equal(t, []string{"v.js", "m.json"}, g.All())
	})

	t.Run("nil order sorts group names", func(t *testing.T) {
		g := Named(nil, map[string][]string{"b": {"2"}, "a": {"1"}})
		assert.Equal(t, []string{"a", "b"}, g.Names())
	})

	t.Run("caller mutation does not leak in", func(t *testing.T) {
		entries := []string{"a.js"}
		g := Flat(entries...)
		entries[0] = "mutated.js"
		assert.Equal(t, []string{"a.js"}, g.Default())

		byName := map[string][]string{"x": {"1"}}
		g = Named(nil, byName)
		byName["x"][0] = "mutated"
		got, ok := g.Get("x")
		require.True(t, ok)
		assert.Equal(t, []string{"1"}, got)
	})

	t.Run("accessor copies do not alias internals", func(t *testing.T) {
		g := Flat("a.js")
		g.Default()[0] = "mutated.js"
		assert.Equal(t, []string{"a.js"}, g.Default())

		m := g.Map()
		m[DefaultGroup][0] = "mutated.js"
		assert.Equal(t, []string{"a.js"}, g.Default())
	})
}
