package voxel

// DefaultFillLimit caps the number of cells a flood fill may materialize.
const DefaultFillLimit = 10_000_000

// FillResult describes a flood fill.
type FillResult struct {
	// Grid is the shell plus every filled cell.
	Grid Grid
	Seed Coord
	// Filled counts cells added to the shell.
	Filled int
	// Truncated is set when the fill stopped at the limit.
	Truncated bool
	// SeedOnShell is set when the seed is itself a shell cell, in which
	// case nothing is filled.
	SeedOnShell bool
}

// Fill treats shell as a boundary and flood fills 6-connected cells starting
// at the midpoint of its bounding box. The seed is not checked to lie inside
// the shell; an open shell or an outside seed floods outward until limit
// cells have been filled. limit <= 0 selects DefaultFillLimit.
func Fill(shell Grid, limit int) (FillResult, error) {
	bounds, ok := shell.Bounds()
	if !ok {
		return FillResult{}, ErrEmptyGrid
	}
	if limit <= 0 {
		limit = DefaultFillLimit
	}

	res := FillResult{Seed: bounds.Center()}
	if shell.Has(res.Seed) {
		res.SeedOnShell = true
		res.Grid = shell.Union(nil)
		return res, nil
	}

	filled := Grid{res.Seed: {}}
	queue := []Coord{res.Seed}

search:
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, off := range Neighbors {
			next := cur.Add(off)
			if filled.Has(next) || shell.Has(next) {
				continue
			}
			if len(filled) >= limit {
				res.Truncated = true
				break search
			}
			filled.Add(next)
			queue = append(queue, next)
		}
		// Drop consumed entries once they dominate the backing array.
		if head > 4096 && head*2 > len(queue) {
			queue = append(queue[:0], queue[head+1:]...)
			head = -1
		}
	}

	res.Filled = len(filled)
	res.Grid = shell.Union(filled)
	return res, nil
}
