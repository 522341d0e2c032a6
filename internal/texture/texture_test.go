package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	gomath "math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Faultbox/obj2nbt/pkg/math"
	"github.com/Faultbox/obj2nbt/pkg/palette"
)

func tgaHeader(imageType byte, width, height int, bpp, descriptor byte) []byte {
	h := make([]byte, tgaHeaderSize)
	h[2] = imageType
	h[12], h[13] = byte(width), byte(width>>8)
	h[14], h[15] = byte(height), byte(height>>8)
	h[16] = bpp
	h[17] = descriptor
	return h
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	data := tgaHeader(TGATypeUncompressed, 1, 2, 24, 0)
	data = append(data,
		0, 0, 255, // first stored row is the bottom one: red
		255, 0, 0, // blue
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if got := img.NRGBAAt(0, 1); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("bottom pixel = %v, want red", got)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("top pixel = %v, want blue", got)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	data := tgaHeader(TGATypeRLE, 3, 1, 32, tgaDescriptorTopToBottom)
	data = append(data, 0x82, 10, 20, 30, 128)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	want := color.NRGBA{R: 30, G: 20, B: 10, A: 128}
	for x := 0; x < 3; x++ {
		if got := img.NRGBAAt(x, 0); got != want {
			t.Errorf("pixel %d = %v, want %v", x, got, want)
		}
	}
}

func TestDecodeTGAGray(t *testing.T) {
	data := tgaHeader(TGATypeGray, 1, 1, 8, 0)
	data = append(data, 77)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 77, G: 77, B: 77, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", func() []byte { h := tgaHeader(TGATypeUncompressed, 1, 1, 24, 0); h[1] = 1; return h }()},
		{"unsupported type", tgaHeader(1, 1, 1, 8, 0)},
		{"bad depth", tgaHeader(TGATypeUncompressed, 1, 1, 16, 0)},
		{"zero size", tgaHeader(TGATypeUncompressed, 0, 1, 24, 0)},
		{"truncated pixels", append(tgaHeader(TGATypeUncompressed, 2, 1, 24, 0), 1, 2, 3)},
		{"truncated rle", append(tgaHeader(TGATypeRLE, 2, 1, 24, 0), 0x80, 1, 2, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := DecodeTGA(append(tgaHeader(TGATypeUncompressed, 2, 1, 24, 0), 1, 2, 3))
	if !errors.Is(err, ErrTGATruncated) {
		t.Errorf("expected ErrTGATruncated, got %v", err)
	}
}

func TestDecodeTGAOversizedHeader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"raw", tgaHeader(TGATypeUncompressed, 8000, 8000, 32, 0)},
		{"rle", append(tgaHeader(TGATypeRLE, 8000, 8000, 32, 0), 0xFF, 1, 2, 3, 4)},
		{"gray rle", append(tgaHeader(TGATypeGrayRLE, 65535, 65535, 8, 0), 0xFF, 9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err := DecodeTGA(tt.data)
			runtime.ReadMemStats(&after)

			if !errors.Is(err, ErrTGATruncated) {
				t.Fatalf("expected ErrTGATruncated, got %v", err)
			}
			if grown := after.TotalAlloc - before.TotalAlloc; grown > 1<<20 {
				t.Errorf("allocated %d bytes for %d input bytes", grown, len(tt.data))
			}
		})
	}
}

func TestTGAMinPixelData(t *testing.T) {
	tests := []struct {
		total, pixelSize int
		rle              bool
		want             int
	}{
		{6, 3, false, 18},
		{1, 4, true, 5},
		{128, 4, true, 5},
		{129, 4, true, 10},
		{256, 1, true, 4},
	}
	for _, tt := range tests {
		if got := tgaMinPixelData(tt.total, tt.pixelSize, tt.rle); got != tt.want {
			t.Errorf("tgaMinPixelData(%d, %d, %v) = %d, want %d", tt.total, tt.pixelSize, tt.rle, got, tt.want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{[]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, FormatPNG},
		{[]byte{0xFF, 0xD8, 0xFF, 0xE0}, FormatJPEG},
		{[]byte("GIF89a..."), FormatGIF},
		{[]byte("BM......"), FormatBMP},
		{[]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), FormatWebP},
		{[]byte{0, 0, 2}, ""},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.data); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}

	if got := FormatFromExtension("dir/Skin.TGA"); got != FormatTGA {
		t.Errorf("FormatFromExtension = %q, want tga", got)
	}
}

func TestDecodeBySignatureAndExtension(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	// Signature wins over a misleading name.
	img, err := Decode(buf.Bytes(), "texture.tga")
	if err != nil {
		t.Fatalf("Decode png failed: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("png pixel = %v", got)
	}

	tga := append(tgaHeader(TGATypeUncompressed, 1, 1, 24, 0), 3, 2, 1)
	img, err = Decode(tga, "texture.tga")
	if err != nil {
		t.Fatalf("Decode tga failed: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("tga pixel = %v", got)
	}

	if _, err := Decode([]byte("hello"), "notes.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skin.tga")
	tga := append(tgaHeader(TGATypeUncompressed, 1, 1, 24, 0), 3, 2, 1)
	if err := os.WriteFile(path, tga, 0644); err != nil {
		t.Fatal(err)
	}

	img, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel = %v", got)
	}

	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestToNRGBAResetsOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.SetRGBA(6, 5, color.RGBA{R: 9, A: 255})

	out := ToNRGBA(src)
	if out.Rect != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v", out.Rect)
	}
	if got := out.NRGBAAt(1, 0); got.R != 9 {
		t.Errorf("pixel = %v", got)
	}
}

// quadTexture is a 2x2 texture:
//
//	red   green
//	blue  white
func quadTexture() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestSamplerAt(t *testing.T) {
	s := NewSampler(quadTexture())

	tests := []struct {
		name string
		uv   math.Vec2
		want palette.RGB
	}{
		{"bottom left", math.Vec2{X: 0.25, Y: 0.25}, palette.RGB{B: 255}},
		{"top right", math.Vec2{X: 0.75, Y: 0.75}, palette.RGB{G: 255}},
		{"top left", math.Vec2{X: 0.25, Y: 0.75}, palette.RGB{R: 255}},
		{"wraps past one", math.Vec2{X: 1.25, Y: 0.25}, palette.RGB{B: 255}},
		{"negative truncates toward zero", math.Vec2{X: -0.25, Y: 0.25}, palette.RGB{B: 255}},
		{"negative wraps", math.Vec2{X: -0.75, Y: 0.25}, palette.RGB{R: 255, G: 255, B: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.At(tt.uv)
			if !ok {
				t.Fatal("expected a color")
			}
			if got != tt.want {
				t.Errorf("At(%v) = %v, want %v", tt.uv, got, tt.want)
			}
		})
	}
}

func TestSamplerSampleAverages(t *testing.T) {
	s := NewSampler(quadTexture())

	red := math.Vec2{X: 0.25, Y: 0.75}
	blue := math.Vec2{X: 0.25, Y: 0.25}
	faces := [][4]math.Vec2{
		{red, red, red, red},
		{blue, blue, blue, blue},
	}

	got, ok := s.Sample(faces)
	if !ok {
		t.Fatal("expected a color")
	}
	if want := (palette.RGB{R: 127, B: 127}); got != want {
		t.Errorf("Sample = %v, want %v", got, want)
	}

	// The face center, not its corners, picks the pixel.
	spread := [4]math.Vec2{{X: 0, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 1}, {X: 0, Y: 1}}
	got, _ = s.Sample([][4]math.Vec2{spread})
	if want := (palette.RGB{R: 255}); got != want {
		t.Errorf("Sample(spread) = %v, want %v", got, want)
	}
}

func TestSamplerWithoutTexture(t *testing.T) {
	var s *Sampler
	if _, ok := s.Sample([][4]math.Vec2{{}}); ok {
		t.Error("nil sampler should not yield a color")
	}
	if NewSampler(image.NewNRGBA(image.Rect(0, 0, 0, 0))) != nil {
		t.Error("empty image should yield a nil sampler")
	}

	s = NewSampler(quadTexture())
	if _, ok := s.Sample(nil); ok {
		t.Error("no faces should not yield a color")
	}
	if _, ok := s.At(math.Vec2{X: gomath.NaN(), Y: 0}); ok {
		t.Error("NaN coordinate should not yield a color")
	}
}
