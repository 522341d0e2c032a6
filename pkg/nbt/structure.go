// Package nbt reads and writes gzipped structure files in the Named Binary
// Tag format.
package nbt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"

	"github.com/Faultbox/obj2nbt/pkg/voxel"
)

// ErrNotStructure is returned when an NBT document lacks structure fields.
var ErrNotStructure = errors.New("not a structure document")

type blockTag struct {
	State int32   `nbt:"state"`
	Pos   []int32 `nbt:"pos" nbt_type:"list"`
}

type paletteTag struct {
	Name string `nbt:"Name"`
}

type entityTag struct{}

// structureTag is the root compound. Field order is the encoded order.
type structureTag struct {
	Size     []int32      `nbt:"size" nbt_type:"list"`
	Blocks   []blockTag   `nbt:"blocks"`
	Palette  []paletteTag `nbt:"palette"`
	Entities []entityTag  `nbt:"entities"`
}

// versionedStructureTag adds DataVersion, written only when it is known.
type versionedStructureTag struct {
	Size        []int32      `nbt:"size" nbt_type:"list"`
	Blocks      []blockTag   `nbt:"blocks"`
	Palette     []paletteTag `nbt:"palette"`
	Entities    []entityTag  `nbt:"entities"`
	DataVersion int32        `nbt:"DataVersion"`
}

func newStructureTag(s *voxel.Structure) structureTag {
	doc := structureTag{
		Size:     []int32{s.Size[0], s.Size[1], s.Size[2]},
		Blocks:   make([]blockTag, len(s.Blocks)),
		Palette:  make([]paletteTag, len(s.Palette)),
		Entities: []entityTag{},
	}
	for i, b := range s.Blocks {
		doc.Blocks[i] = blockTag{State: b.State, Pos: []int32{b.Pos[0], b.Pos[1], b.Pos[2]}}
	}
	for i, name := range s.Palette {
		doc.Palette[i] = paletteTag{Name: name}
	}
	return doc
}

// Encode writes the uncompressed structure document. DataVersion is
// included only when dataVersion > 0.
func Encode(w io.Writer, s *voxel.Structure, dataVersion int32) error {
	doc := newStructureTag(s)
	var v any = doc
	if dataVersion > 0 {
		v = versionedStructureTag{
			Size:        doc.Size,
			Blocks:      doc.Blocks,
			Palette:     doc.Palette,
			Entities:    doc.Entities,
			DataVersion: dataVersion,
		}
	}
	return nbt.NewEncoder(w).Encode(v, "")
}

// WriteStructure writes a gzip-compressed structure document.
func WriteStructure(w io.Writer, s *voxel.Structure, dataVersion int32) error {
	zw := gzip.NewWriter(w)
	if err := Encode(zw, s, dataVersion); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// WriteStructureFile writes a structure document to path, creating parent
// directories as needed.
func WriteStructureFile(path string, s *voxel.Structure, dataVersion int32) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating structure file: %w", err)
	}
	if err := WriteStructure(f, s, dataVersion); err != nil {
		f.Close()
		return fmt.Errorf("writing structure file: %w", err)
	}
	return f.Close()
}

// Document is a decoded structure file.
type Document struct {
	Structure *voxel.Structure
	// DataVersion is zero when the file does not carry one.
	DataVersion int32
}

// Read decodes a structure document, gzipped or not.
func Read(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	var doc versionedStructureTag
	if _, err := nbt.NewDecoder(src).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding structure: %w", err)
	}

	if len(doc.Size) != 3 {
		return nil, fmt.Errorf("%w: size is not a 3-int list", ErrNotStructure)
	}
	if len(doc.Palette) == 0 || len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("%w: missing palette or blocks", ErrNotStructure)
	}

	s := &voxel.Structure{
		Size:    [3]int32{doc.Size[0], doc.Size[1], doc.Size[2]},
		Palette: make([]string, len(doc.Palette)),
		Blocks:  make([]voxel.Block, len(doc.Blocks)),
	}
	for i, p := range doc.Palette {
		s.Palette[i] = p.Name
	}
	for i, b := range doc.Blocks {
		if len(b.Pos) != 3 {
			return nil, fmt.Errorf("%w: block %d pos is not a 3-int list", ErrNotStructure, i)
		}
		if b.State < 0 || int(b.State) >= len(s.Palette) {
			return nil, fmt.Errorf("%w: block %d state %d outside palette", ErrNotStructure, i, b.State)
		}
		s.Blocks[i] = voxel.Block{State: b.State, Pos: [3]int32{b.Pos[0], b.Pos[1], b.Pos[2]}}
	}
	return &Document{Structure: s, DataVersion: doc.DataVersion}, nil
}

// ReadStructure decodes a structure document back into its hand-off form.
func ReadStructure(r io.Reader) (*voxel.Structure, error) {
	doc, err := Read(r)
	if err != nil {
		return nil, err
	}
	return doc.Structure, nil
}

// ReadFile decodes a structure file from disk.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening structure file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// ReadStructureFile decodes a structure file from disk.
func ReadStructureFile(path string) (*voxel.Structure, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Structure, nil
}
