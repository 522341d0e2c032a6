// Package voxel turns quad meshes into voxel grids and block assignments.
//
// The pipeline is Normalize → Project → (Fill | Colorize) → BuildStructure.
// Every stage consumes its input fully and returns a new value; nothing is
// shared between stages.
package voxel

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrEmptyGrid is returned by stages that need at least one voxel.
var ErrEmptyGrid = errors.New("voxel grid is empty")

// Coord identifies one unit cell of the integer lattice.
type Coord struct {
	X, Y, Z int
}

// String returns "(x,y,z)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Add returns c + other.
func (c Coord) Add(other Coord) Coord {
	return Coord{c.X + other.X, c.Y + other.Y, c.Z + other.Z}
}

// Sub returns c - other.
func (c Coord) Sub(other Coord) Coord {
	return Coord{c.X - other.X, c.Y - other.Y, c.Z - other.Z}
}

// Neighbors lists the six face-adjacent offsets in the fixed order
// +X, -X, +Y, -Y, +Z, -Z. Traversals use this order for reproducibility.
var Neighbors = [6]Coord{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Compare orders coordinates by X, then Y, then Z.
func Compare(a, b Coord) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}

// Bounds is an inclusive axis-aligned box of cells.
type Bounds struct {
	Min, Max Coord
}

// Size returns the number of cells along each axis.
func (b Bounds) Size() Coord {
	return Coord{b.Max.X - b.Min.X + 1, b.Max.Y - b.Min.Y + 1, b.Max.Z - b.Min.Z + 1}
}

// Center returns the per-axis midpoint using integer division.
func (b Bounds) Center() Coord {
	return Coord{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2, (b.Min.Z + b.Max.Z) / 2}
}

// Extend grows b to include c.
func (b Bounds) Extend(c Coord) Bounds {
	return Bounds{
		Min: Coord{min(b.Min.X, c.X), min(b.Min.Y, c.Y), min(b.Min.Z, c.Z)},
		Max: Coord{max(b.Max.X, c.X), max(b.Max.Y, c.Y), max(b.Max.Z, c.Z)},
	}
}

// Grid is an unordered set of cells.
type Grid map[Coord]struct{}

// NewGrid creates a grid from the given cells.
func NewGrid(cells ...Coord) Grid {
	g := make(Grid, len(cells))
	for _, c := range cells {
		g.Add(c)
	}
	return g
}

// Add inserts c. Duplicates collapse.
func (g Grid) Add(c Coord) {
	g[c] = struct{}{}
}

// Has reports whether c is in the grid.
func (g Grid) Has(c Coord) bool {
	_, ok := g[c]
	return ok
}

// Len returns the number of cells.
func (g Grid) Len() int {
	return len(g)
}

// Union returns a new grid holding the cells of g and other.
func (g Grid) Union(other Grid) Grid {
	out := make(Grid, len(g)+len(other))
	for c := range g {
		out[c] = struct{}{}
	}
	for c := range other {
		out[c] = struct{}{}
	}
	return out
}

// Sorted returns the cells in Compare order.
func (g Grid) Sorted() []Coord {
	out := make([]Coord, 0, len(g))
	for c := range g {
		out = append(out, c)
	}
	slices.SortFunc(out, Compare)
	return out
}

// Bounds returns the bounding box of the grid. ok is false for an empty grid.
func (g Grid) Bounds() (b Bounds, ok bool) {
	for c := range g {
		if !ok {
			b = Bounds{Min: c, Max: c}
			ok = true
			continue
		}
		b = b.Extend(c)
	}
	return b, ok
}

// Assignment maps each cell to a block identifier.
type Assignment map[Coord]string

// Uniform assigns the same identifier to every cell of g.
func Uniform(g Grid, id string) Assignment {
	a := make(Assignment, len(g))
	for c := range g {
		a[c] = id
	}
	return a
}

// Grid returns the set of assigned cells.
func (a Assignment) Grid() Grid {
	g := make(Grid, len(a))
	for c := range a {
		g[c] = struct{}{}
	}
	return g
}

// Sorted returns the assigned cells in Compare order.
func (a Assignment) Sorted() []Coord {
	return a.Grid().Sorted()
}

// Subset returns the assignment restricted to the given cells.
func (a Assignment) Subset(cells []Coord) Assignment {
	out := make(Assignment, len(cells))
	for _, c := range cells {
		if id, ok := a[c]; ok {
			out[c] = id
		}
	}
	return out
}

// Histogram counts cells per identifier.
func (a Assignment) Histogram() map[string]int {
	h := make(map[string]int)
	for _, id := range a {
		h[id]++
	}
	return h
}
