package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStructure(t *testing.T) {
	a := Assignment{
		{5, 1, 2}: "minecraft:stone",
		{6, 1, 2}: "minecraft:dirt",
		{5, 3, 2}: "minecraft:stone",
		{5, 1, 4}: "minecraft:dirt",
	}

	s, err := BuildStructure(a)
	require.NoError(t, err)
	assert.Equal(t, [3]int32{2, 3, 3}, s.Size)
	assert.Equal(t, []string{"minecraft:stone", "minecraft:dirt"}, s.Palette)
	assert.Equal(t, []Block{
		{State: 0, Pos: [3]int32{0, 0, 0}},
		{State: 1, Pos: [3]int32{0, 0, 2}},
		{State: 0, Pos: [3]int32{0, 2, 0}},
		{State: 1, Pos: [3]int32{1, 0, 0}},
	}, s.Blocks)
}

func TestBuildStructurePaletteIsUnique(t *testing.T) {
	ids := []string{"a", "b", "c", "a", "b"}
	a := Assignment{}
	for i, c := range hollowBox(4).Sorted() {
		a[c] = ids[i%len(ids)]
	}

	s, err := BuildStructure(a)
	require.NoError(t, err)
	assert.Len(t, s.Blocks, len(a))
	assert.LessOrEqual(t, len(s.Palette), 3)

	seen := map[string]bool{}
	for _, id := range s.Palette {
		assert.False(t, seen[id], "duplicate palette entry %q", id)
		seen[id] = true
	}
	for _, b := range s.Blocks {
		assert.Less(t, int(b.State), len(s.Palette))
	}
}

func TestBuildStructureEmpty(t *testing.T) {
	_, err := BuildStructure(Assignment{})
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestChunk(t *testing.T) {
	var cells []Coord
	for z := 0; z < 4; z++ {
		cells = append(cells, Coord{0, 0, z}, Coord{1, 0, z}, Coord{0, 1, z})
	}

	chunks := Chunk(cells, 5)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 6, "a Z layer must not be split")
	assert.Len(t, chunks[1], 6)
	assert.Equal(t, Coord{0, 0, 0}, chunks[0][0])
	assert.Equal(t, Coord{0, 0, 2}, chunks[1][0])

	assert.Len(t, Chunk(cells, 0), 1)
	assert.Len(t, Chunk(cells, 100), 1)
	assert.Nil(t, Chunk(nil, 5))
}
