package texture

import (
	"image"
	gomath "math"

	"github.com/Faultbox/obj2nbt/pkg/math"
	"github.com/Faultbox/obj2nbt/pkg/palette"
)

// Sampler reads colors from a texture by UV coordinate.
// A nil Sampler has no texture and never yields a color.
type Sampler struct {
	img *image.NRGBA
}

// NewSampler wraps a decoded texture. Returns nil for an empty image.
func NewSampler(img *image.NRGBA) *Sampler {
	if img == nil || img.Rect.Empty() {
		return nil
	}
	return &Sampler{img: ToNRGBA(img)}
}

// Size returns the texture dimensions.
func (s *Sampler) Size() (width, height int) {
	if s == nil {
		return 0, 0
	}
	return s.img.Rect.Dx(), s.img.Rect.Dy()
}

// PixelAt maps a UV coordinate to a pixel position. Coordinates wrap, and
// v is flipped because UV space grows upwards while image rows grow down.
func (s *Sampler) PixelAt(uv math.Vec2) (x, y int, ok bool) {
	if s == nil {
		return 0, 0, false
	}
	w, h := s.Size()
	px, okX := wrap(uv.X, w)
	py, okY := wrap(uv.Y, h)
	if !okX || !okY {
		return 0, 0, false
	}
	return px, h - py - 1, true
}

// wrap scales t by n, truncates toward zero and reduces into [0, n).
func wrap(t float64, n int) (int, bool) {
	v := gomath.Trunc(t * float64(n))
	if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
		return 0, false
	}
	m := gomath.Mod(v, float64(n))
	if m < 0 {
		m += float64(n)
	}
	return int(m), true
}

// At returns the RGB color under a UV coordinate. Alpha is ignored.
func (s *Sampler) At(uv math.Vec2) (palette.RGB, bool) {
	x, y, ok := s.PixelAt(uv)
	if !ok {
		return palette.RGB{}, false
	}
	i := s.img.PixOffset(x, y)
	p := s.img.Pix[i : i+3 : i+3]
	return palette.RGB{R: p[0], G: p[1], B: p[2]}, true
}

// Sample averages the colors under the UV centers of the given faces.
// Each face contributes the color at the mean of its four UVs, and channels
// are averaged independently with integer division. ok is false when no
// face yields a color.
func (s *Sampler) Sample(faces [][4]math.Vec2) (palette.RGB, bool) {
	var r, g, b, n int
	for _, uvs := range faces {
		c, ok := s.At(math.Mean2(uvs[:]...))
		if !ok {
			continue
		}
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
		n++
	}
	if n == 0 {
		return palette.RGB{}, false
	}
	return palette.RGB{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}, true
}
