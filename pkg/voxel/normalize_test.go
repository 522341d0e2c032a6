package voxel

import (
	"testing"

	"github.com/Faultbox/obj2nbt/pkg/formats"
	"github.com/Faultbox/obj2nbt/pkg/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadMesh(vertices ...math.Vec3) *formats.Mesh {
	return &formats.Mesh{
		Vertices: vertices,
		Faces:    []formats.QuadFace{{Vertices: [4]int{0, 1, 2, 3}}},
	}
}

func TestNormalizeUnitQuad(t *testing.T) {
	mesh := quadMesh(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 1, Y: 0, Z: 0},
		math.Vec3{X: 1, Y: 1, Z: 0},
		math.Vec3{X: 0, Y: 1, Z: 0},
	)

	n, err := Normalize(mesh, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, n.Scale)
	assert.Equal(t, math.Vec3{}, n.Origin)
	assert.Equal(t, []Coord{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, n.Vertices)
}

func TestNormalizeScalesAndTranslates(t *testing.T) {
	// Reference edge is 0.25 long, so scale is 4.
	mesh := quadMesh(
		math.Vec3{X: 10, Y: -5, Z: 2},
		math.Vec3{X: 10.25, Y: -5, Z: 2},
		math.Vec3{X: 10.25, Y: -4.75, Z: 2},
		math.Vec3{X: 10, Y: -4.75, Z: 2.5},
	)

	n, err := Normalize(mesh, 0)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, n.Scale, 1e-12)
	assert.Equal(t, math.Vec3{X: 10, Y: -5, Z: 2}, n.Origin)
	assert.Equal(t, []Coord{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 2}}, n.Vertices)
}

func TestNormalizeExplicitScale(t *testing.T) {
	mesh := quadMesh(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 1, Y: 1, Z: 0},
		math.Vec3{X: 0, Y: 1, Z: 0},
	)
	n, err := Normalize(mesh, 2)
	require.NoError(t, err, "an explicit scale must bypass the reference edge")
	assert.Equal(t, Coord{2, 2, 0}, n.Vertices[2])
}

func TestNormalizeRoundsHalfAwayFromZero(t *testing.T) {
	mesh := quadMesh(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 1, Y: 0, Z: 0},
		math.Vec3{X: 1.5, Y: 2.5, Z: 0.49},
		math.Vec3{X: 0, Y: 1, Z: 0},
	)
	n, err := Normalize(mesh, 0)
	require.NoError(t, err)
	assert.Equal(t, Coord{2, 3, 0}, n.Vertices[2])
}

func TestReferenceScaleZeroEdge(t *testing.T) {
	mesh := quadMesh(
		math.Vec3{X: 1, Y: 1, Z: 1},
		math.Vec3{X: 1, Y: 1, Z: 1},
		math.Vec3{X: 2, Y: 2, Z: 1},
		math.Vec3{X: 1, Y: 2, Z: 1},
	)
	_, err := Normalize(mesh, 0)
	assert.ErrorIs(t, err, ErrZeroReferenceEdge)
}

func TestReferenceScaleNoFaces(t *testing.T) {
	_, err := ReferenceScale(&formats.Mesh{})
	assert.ErrorIs(t, err, formats.ErrNoQuadFaces)
}

func TestOriginIsPerAxis(t *testing.T) {
	// The minimum of each axis comes from a different vertex.
	got := Origin([]math.Vec3{
		{X: 0, Y: 5, Z: 9},
		{X: 3, Y: -1, Z: 7},
		{X: 4, Y: 2, Z: -6},
	})
	assert.Equal(t, math.Vec3{X: 0, Y: -1, Z: -6}, got)
	assert.Equal(t, math.Vec3{}, Origin(nil))
}
