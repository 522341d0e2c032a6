// Package formats provides parsers for the Wavefront OBJ mesh and MTL material formats.
package formats

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/obj2nbt/pkg/encoding"
	"github.com/Faultbox/obj2nbt/pkg/math"
)

// OBJ format errors.
var (
	ErrNoQuadFaces     = errors.New("no quad faces found")
	ErrMalformedNumber = errors.New("malformed numeric field")
	ErrIndexOutOfRange = errors.New("face index out of range")
)

// QuadVertices is the arity of the only face shape the voxelizer accepts.
const QuadVertices = 4

// QuadFace is a four-sided face with 0-based indices.
type QuadFace struct {
	Vertices [QuadVertices]int
	// TexCoords is nil unless every corner of the face carried a texture index.
	TexCoords *[QuadVertices]int
}

// HasTexCoords reports whether the face carries UV indices.
func (f QuadFace) HasTexCoords() bool {
	return f.TexCoords != nil
}

// Diagnostic describes a line that was skipped during parsing.
type Diagnostic struct {
	Line   int
	Text   string
	Reason string
}

// String formats the diagnostic as "line N: reason: text".
func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %q", d.Line, d.Reason, d.Text)
}

// Mesh is a parsed OBJ model restricted to quad faces.
type Mesh struct {
	Vertices     []math.Vec3
	TexCoords    []math.Vec2
	Faces        []QuadFace
	MaterialLibs []string

	// DroppedFaces counts triangles and n-gons that were ignored.
	DroppedFaces int
	Lines        int
	Diagnostics  []Diagnostic
}

// TexturedFaces returns the number of faces that carry UV indices.
func (m *Mesh) TexturedFaces() int {
	n := 0
	for _, f := range m.Faces {
		if f.HasTexCoords() {
			n++
		}
	}
	return n
}

// Bounds returns the per-axis minimum and maximum over all vertices.
func (m *Mesh) Bounds() (min, max math.Vec3) {
	if len(m.Vertices) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// ParseOBJ parses OBJ text.
//
// Only v, vt, f and mtllib directives are interpreted. Faces with other than
// four corners are dropped silently. A vertex or texture line with too few
// fields is skipped with a diagnostic; a field that is present but not a number
// fails the whole parse.
func ParseOBJ(data []byte) (*Mesh, error) {
	mesh := &Mesh{}
	lines := encoding.Lines(encoding.ToUTF8String(data))

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' {
			continue
		}
		mesh.Lines++

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				mesh.skip(lineNo, line, "vertex needs 3 coordinates")
				continue
			}
			coords, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, math.Vec3{X: coords[0], Y: coords[1], Z: coords[2]})

		case "vt":
			if len(fields) < 3 {
				mesh.skip(lineNo, line, "texture coordinate needs 2 components")
				continue
			}
			coords, err := parseFloats(fields[1:3])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.TexCoords = append(mesh.TexCoords, math.Vec2{X: coords[0], Y: coords[1]})

		case "f":
			if len(fields)-1 != QuadVertices {
				mesh.DroppedFaces++
				continue
			}
			face, err := mesh.parseFace(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.Faces = append(mesh.Faces, face)

		case "mtllib":
			if len(fields) > 1 {
				lib := strings.TrimSpace(strings.TrimPrefix(line, "mtllib"))
				mesh.MaterialLibs = append(mesh.MaterialLibs, lib)
			}
		}
	}

	if len(mesh.Faces) == 0 {
		return nil, ErrNoQuadFaces
	}

	if err := mesh.validate(); err != nil {
		return nil, err
	}

	return mesh, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

func (m *Mesh) skip(line int, text, reason string) {
	m.Diagnostics = append(m.Diagnostics, Diagnostic{Line: line, Text: text, Reason: reason})
}

// parseFace parses the four "v[/vt[/vn]]" groups of a face line.
func (m *Mesh) parseFace(groups []string) (QuadFace, error) {
	var face QuadFace
	var uv [QuadVertices]int
	textured := true

	for i, group := range groups {
		parts := strings.Split(group, "/")

		vi, err := resolveIndex(parts[0], len(m.Vertices))
		if err != nil {
			return QuadFace{}, fmt.Errorf("vertex index %q: %w", parts[0], err)
		}
		face.Vertices[i] = vi

		if len(parts) < 2 || parts[1] == "" {
			textured = false
			continue
		}
		ti, err := resolveIndex(parts[1], len(m.TexCoords))
		if err != nil {
			return QuadFace{}, fmt.Errorf("texture index %q: %w", parts[1], err)
		}
		uv[i] = ti
	}

	if textured {
		face.TexCoords = &uv
	}
	return face, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index to 0-based.
func resolveIndex(field string, count int) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, field)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		return count + n, nil
	default:
		return 0, fmt.Errorf("%w: index 0", ErrIndexOutOfRange)
	}
}

// validate checks every face index against the final vertex and texcoord counts.
func (m *Mesh) validate() error {
	for fi, f := range m.Faces {
		for _, vi := range f.Vertices {
			if vi < 0 || vi >= len(m.Vertices) {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrIndexOutOfRange, fi, vi+1, len(m.Vertices))
			}
		}
		if f.TexCoords == nil {
			continue
		}
		for _, ti := range f.TexCoords {
			if ti < 0 || ti >= len(m.TexCoords) {
				return fmt.Errorf("%w: face %d references texture coordinate %d of %d", ErrIndexOutOfRange, fi, ti+1, len(m.TexCoords))
			}
		}
	}
	return nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedNumber, f)
		}
		out[i] = v
	}
	return out, nil
}
