package voxel

import "slices"

// Block is one placed cell of a structure: an index into the structure
// palette and a position relative to the structure's minimum corner.
type Block struct {
	State int32
	Pos   [3]int32
}

// Structure is the hand-off to a structure file writer.
type Structure struct {
	Size    [3]int32
	Palette []string
	Blocks  []Block
}

// BuildStructure lays out an assignment for serialization. Blocks are emitted
// in Compare order and palette entries in order of first use, so equal inputs
// always produce equal output.
func BuildStructure(a Assignment) (*Structure, error) {
	cells := a.Sorted()
	if len(cells) == 0 {
		return nil, ErrEmptyGrid
	}

	bounds := Bounds{Min: cells[0], Max: cells[0]}
	for _, c := range cells[1:] {
		bounds = bounds.Extend(c)
	}
	size := bounds.Size()

	s := &Structure{
		Size:   [3]int32{int32(size.X), int32(size.Y), int32(size.Z)},
		Blocks: make([]Block, 0, len(cells)),
	}
	states := make(map[string]int32)
	for _, c := range cells {
		id := a[c]
		state, ok := states[id]
		if !ok {
			state = int32(len(s.Palette))
			states[id] = state
			s.Palette = append(s.Palette, id)
		}
		rel := c.Sub(bounds.Min)
		s.Blocks = append(s.Blocks, Block{
			State: state,
			Pos:   [3]int32{int32(rel.X), int32(rel.Y), int32(rel.Z)},
		})
	}
	return s, nil
}

// Chunk splits cells into slabs for separate structure files. Cells are
// ordered by Z, then Y, then X, and a new chunk starts once the current one
// holds at least size cells and Z advances, so a Z layer is never split.
// size <= 0 returns all cells as one chunk.
func Chunk(cells []Coord, size int) [][]Coord {
	if len(cells) == 0 {
		return nil
	}
	ordered := slices.Clone(cells)
	slices.SortFunc(ordered, func(a, b Coord) int {
		return Compare(Coord{a.Z, a.Y, a.X}, Coord{b.Z, b.Y, b.X})
	})
	if size <= 0 {
		return [][]Coord{ordered}
	}

	var chunks [][]Coord
	var current []Coord
	for _, c := range ordered {
		if len(current) >= size && c.Z > current[len(current)-1].Z {
			chunks = append(chunks, current)
			current = nil
		}
		current = append(current, c)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
