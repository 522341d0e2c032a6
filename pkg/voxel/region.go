package voxel

import (
	"math/rand/v2"

	"github.com/Faultbox/obj2nbt/pkg/palette"
)

// Colorize assigns a block to every cell of g so that connected cells form
// contiguous patches.
//
// Cells are visited breadth first, one connected component at a time, with
// roots taken in Compare order. A cell inherits an identifier from a
// previously visited neighbor (chosen uniformly among the distinct ones it
// touches) and only draws a fresh one from table when it has none. With the
// same rng seed the result is identical across runs.
func Colorize(g Grid, table palette.WeightTable, rng *rand.Rand) (Assignment, error) {
	if len(g) == 0 {
		return Assignment{}, nil
	}
	if table.Total() <= 0 {
		return nil, palette.ErrEmptyWeightTable
	}

	assigned := make(Assignment, len(g))
	var queue []Coord
	var seen []string

	for _, root := range g.Sorted() {
		if _, ok := assigned[root]; ok {
			continue
		}

		queue = append(queue[:0], root)
		for head := 0; head < len(queue); head++ {
			cur := queue[head]
			if _, ok := assigned[cur]; ok {
				continue
			}

			seen = seen[:0]
			for _, off := range Neighbors {
				next := cur.Add(off)
				if !g.Has(next) {
					continue
				}
				id, visited := assigned[next]
				if !visited {
					queue = append(queue, next)
					continue
				}
				if !containsString(seen, id) {
					seen = append(seen, id)
				}
			}

			var id string
			if len(seen) > 0 {
				id = seen[rng.IntN(len(seen))]
			} else {
				var err error
				if id, err = table.Sample(rng); err != nil {
					return nil, err
				}
			}
			assigned[cur] = id
		}
	}

	return assigned, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
