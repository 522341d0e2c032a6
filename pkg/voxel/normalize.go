package voxel

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/obj2nbt/pkg/formats"
	"github.com/Faultbox/obj2nbt/pkg/math"
)

// ErrZeroReferenceEdge is returned when the first edge of the first face has
// no length, so no scale can be derived from it.
var ErrZeroReferenceEdge = errors.New("reference edge has zero length")

// Normalized holds mesh vertices rewritten into integer grid space.
type Normalized struct {
	// Scale converts source units to voxels.
	Scale float64
	// Origin is the per-axis minimum subtracted before scaling.
	Origin   math.Vec3
	Vertices []Coord
}

// ReferenceScale returns 1 / |v1 - v0| for the first two vertices of the
// first face. The mesh is assumed to be authored with that edge one voxel long.
func ReferenceScale(mesh *formats.Mesh) (float64, error) {
	if len(mesh.Faces) == 0 {
		return 0, formats.ErrNoQuadFaces
	}
	face := mesh.Faces[0]
	v0 := mesh.Vertices[face.Vertices[0]]
	v1 := mesh.Vertices[face.Vertices[1]]

	edge := v0.Distance(v1)
	if edge == 0 || gomath.IsNaN(edge) || gomath.IsInf(edge, 0) {
		return 0, fmt.Errorf("%w: vertices %d and %d", ErrZeroReferenceEdge, face.Vertices[0]+1, face.Vertices[1]+1)
	}
	return 1 / edge, nil
}

// Origin returns the per-axis minimum over all vertices. Each axis is reduced
// independently, so the result need not be one of the vertices.
func Origin(vertices []math.Vec3) math.Vec3 {
	if len(vertices) == 0 {
		return math.Vec3{}
	}
	origin := vertices[0]
	for _, v := range vertices[1:] {
		origin = origin.Min(v)
	}
	return origin
}

// Normalize translates every vertex by -Origin, multiplies by the scale and
// rounds half away from zero. A scale <= 0 is derived with ReferenceScale.
func Normalize(mesh *formats.Mesh, scale float64) (*Normalized, error) {
	if scale <= 0 {
		s, err := ReferenceScale(mesh)
		if err != nil {
			return nil, err
		}
		scale = s
	}

	origin := Origin(mesh.Vertices)
	out := &Normalized{
		Scale:    scale,
		Origin:   origin,
		Vertices: make([]Coord, len(mesh.Vertices)),
	}
	for i, v := range mesh.Vertices {
		p := v.Sub(origin).Scale(scale)
		out.Vertices[i] = Coord{
			X: int(gomath.Round(p.X)),
			Y: int(gomath.Round(p.Y)),
			Z: int(gomath.Round(p.Z)),
		}
	}
	return out, nil
}

// Point returns vertex i as a float vector.
func (n *Normalized) Point(i int) math.Vec3 {
	c := n.Vertices[i]
	return math.Vec3{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)}
}
