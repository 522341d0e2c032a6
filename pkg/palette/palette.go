// Package palette maps block identifiers to colors and picks the closest block for a sampled color.
//
// A Palette keeps insertion order, so nearest-match ties always resolve to the
// entry that was loaded first.
package palette

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/obj2nbt/pkg/encoding"
)

// Palette errors.
var (
	ErrInvalidHex    = errors.New("invalid hex color")
	ErrEmptyPalette  = errors.New("palette has no entries")
	ErrUnknownFamily = errors.New("unknown block family")
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DistanceSq returns the squared Euclidean distance in RGB space.
func (c RGB) DistanceSq(other RGB) int {
	dr := int(c.R) - int(other.R)
	dg := int(c.G) - int(other.G)
	db := int(c.B) - int(other.B)
	return dr*dr + dg*dg + db*db
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (RGB, error) {
	code := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(code) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexDigit(code[2*i])
		lo, ok2 := hexDigit(code[2*i+1])
		if !ok1 || !ok2 {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
		rgb[i] = hi<<4 | lo
	}
	return RGB{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Entry pairs a block identifier with its representative color.
type Entry struct {
	ID    string
	Color RGB
}

// Diagnostic describes a table line that was skipped.
type Diagnostic struct {
	Line   int
	Text   string
	Reason string
}

// String formats the diagnostic as "line N: reason: text".
func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %q", d.Line, d.Reason, d.Text)
}

// Palette is an insertion-ordered, read-only set of entries with unique identifiers.
type Palette struct {
	entries []Entry
	index   map[string]int
}

// New builds a palette from entries. Later duplicates of an identifier are
// dropped and reported; the first occurrence wins.
func New(entries []Entry) (*Palette, []Diagnostic) {
	p := &Palette{index: make(map[string]int, len(entries))}
	var diags []Diagnostic
	for i, e := range entries {
		if !p.add(e) {
			diags = append(diags, Diagnostic{Line: i + 1, Text: e.ID, Reason: "duplicate block"})
		}
	}
	return p, diags
}

func (p *Palette) add(e Entry) bool {
	if _, exists := p.index[e.ID]; exists {
		return false
	}
	p.index[e.ID] = len(p.entries)
	p.entries = append(p.entries, e)
	return true
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the entries in insertion order.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Lookup returns the color of a block identifier.
func (p *Palette) Lookup(id string) (RGB, bool) {
	i, ok := p.index[id]
	if !ok {
		return RGB{}, false
	}
	return p.entries[i].Color, true
}

// BestMatch returns the identifier whose color is closest to c.
// Ties resolve to the earliest entry. Returns false for an empty palette.
func (p *Palette) BestMatch(c RGB) (string, bool) {
	if p == nil || len(p.entries) == 0 {
		return "", false
	}
	best := 0
	bestDist := c.DistanceSq(p.entries[0].Color)
	for i := 1; i < len(p.entries); i++ {
		if d := c.DistanceSq(p.entries[i].Color); d < bestDist {
			best, bestDist = i, d
		}
	}
	return p.entries[best].ID, true
}

// Parse reads "identifier, #RRGGBB" lines. Blank lines are ignored; lines with
// the wrong field count, an empty identifier, bad hex codes or duplicate
// identifiers are skipped and reported.
func Parse(data []byte) (*Palette, []Diagnostic) {
	p := &Palette{index: make(map[string]int)}
	var diags []Diagnostic

	for i, raw := range encoding.Lines(encoding.ToUTF8String(data)) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			diags = append(diags, Diagnostic{Line: i + 1, Text: line, Reason: "expected 2 fields"})
			continue
		}
		id := strings.TrimSpace(parts[0])
		if id == "" {
			diags = append(diags, Diagnostic{Line: i + 1, Text: line, Reason: "missing block identifier"})
			continue
		}
		color, err := ParseHex(parts[1])
		if err != nil {
			diags = append(diags, Diagnostic{Line: i + 1, Text: line, Reason: "invalid color code"})
			continue
		}
		if !p.add(Entry{ID: id, Color: color}) {
			diags = append(diags, Diagnostic{Line: i + 1, Text: line, Reason: "duplicate block"})
		}
	}

	return p, diags
}

// ParseFile parses a palette table from disk.
func ParseFile(path string) (*Palette, []Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading palette file: %w", err)
	}
	p, diags := Parse(data)
	if p.Len() == 0 {
		return nil, diags, fmt.Errorf("%w: %s", ErrEmptyPalette, path)
	}
	return p, diags, nil
}
