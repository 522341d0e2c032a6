package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridBasics(t *testing.T) {
	g := NewGrid(Coord{1, 2, 3}, Coord{0, 0, 0}, Coord{1, 2, 3})
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Has(Coord{1, 2, 3}))
	assert.False(t, g.Has(Coord{3, 2, 1}))

	b, ok := g.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{Min: Coord{0, 0, 0}, Max: Coord{1, 2, 3}}, b)
	assert.Equal(t, Coord{2, 3, 4}, b.Size())
	assert.Equal(t, Coord{0, 1, 1}, b.Center())

	_, ok = Grid{}.Bounds()
	assert.False(t, ok)
}

func TestGridSorted(t *testing.T) {
	g := NewGrid(Coord{1, 0, 0}, Coord{0, 1, 0}, Coord{0, 0, 1}, Coord{0, 0, 0})
	assert.Equal(t, []Coord{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {1, 0, 0}}, g.Sorted())
}

func TestGridUnion(t *testing.T) {
	a := NewGrid(Coord{0, 0, 0})
	b := NewGrid(Coord{0, 0, 0}, Coord{1, 0, 0})
	u := a.Union(b)
	assert.Equal(t, 2, u.Len())
	assert.Equal(t, 1, a.Len(), "union must not mutate its receiver")
}

func TestAssignmentHelpers(t *testing.T) {
	g := NewGrid(Coord{0, 0, 0}, Coord{1, 0, 0})
	a := Uniform(g, "minecraft:stone")
	assert.Equal(t, map[string]int{"minecraft:stone": 2}, a.Histogram())
	assert.Equal(t, g, a.Grid())

	sub := a.Subset([]Coord{{1, 0, 0}, {9, 9, 9}})
	assert.Equal(t, Assignment{{1, 0, 0}: "minecraft:stone"}, sub)
}
