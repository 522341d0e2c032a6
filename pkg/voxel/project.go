package voxel

import (
	gomath "math"

	"github.com/Faultbox/obj2nbt/pkg/formats"
	"github.com/Faultbox/obj2nbt/pkg/math"
)

// axisTolerance absorbs float noise in the |nx|+|ny|+|nz| == 1 test.
const axisTolerance = 1e-9

// Projection is the result of projecting quad faces onto the grid.
type Projection struct {
	Grid Grid
	// Sources lists, per cell, the indices of the faces that produced it.
	// Nil unless source tracking was requested.
	Sources map[Coord][]int
	// Skipped holds the indices of faces whose normal is not axis aligned.
	Skipped []int
}

// FaceNormal blends the normals of both triangulations of a quad:
// n1 = (v1-v0)×(v2-v0), n2 = (v2-v0)×(v3-v0), each normalized, averaged and
// normalized again. Degenerate faces yield the zero vector.
func FaceNormal(v0, v1, v2, v3 math.Vec3) math.Vec3 {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	e3 := v3.Sub(v0)

	n1 := e1.Cross(e2).Normalize()
	n2 := e2.Cross(e3).Normalize()
	return n1.Add(n2).Scale(0.5).Normalize()
}

// IsAxisAligned reports whether n is a unit vector along one axis.
func IsAxisAligned(n math.Vec3) bool {
	return gomath.Abs(n.AbsSum()-1) <= axisTolerance
}

// CellBehind returns the cell half a unit behind the face centroid, against
// the normal. ok is false when the normal is not axis aligned.
func CellBehind(v0, v1, v2, v3 math.Vec3) (c Coord, ok bool) {
	normal := FaceNormal(v0, v1, v2, v3)
	if !IsAxisAligned(normal) {
		return Coord{}, false
	}
	p := math.Mean(v0, v1, v2, v3).Sub(normal.Scale(0.5))
	// Floor rather than truncate so faces on negative coordinates still map
	// to the cell one unit behind them. Both agree for non-negative values.
	return Coord{
		X: int(gomath.Floor(p.X)),
		Y: int(gomath.Floor(p.Y)),
		Z: int(gomath.Floor(p.Z)),
	}, true
}

// Project maps each face of the mesh to one cell. Faces whose normal is not
// axis aligned are skipped and listed in Projection.Skipped.
func Project(n *Normalized, faces []formats.QuadFace, trackSources bool) Projection {
	proj := Projection{Grid: make(Grid, len(faces))}
	if trackSources {
		proj.Sources = make(map[Coord][]int, len(faces))
	}

	for fi, face := range faces {
		c, ok := CellBehind(
			n.Point(face.Vertices[0]),
			n.Point(face.Vertices[1]),
			n.Point(face.Vertices[2]),
			n.Point(face.Vertices[3]),
		)
		if !ok {
			proj.Skipped = append(proj.Skipped, fi)
			continue
		}
		proj.Grid.Add(c)
		if trackSources {
			proj.Sources[c] = append(proj.Sources[c], fi)
		}
	}
	return proj
}
