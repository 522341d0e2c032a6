package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseMTL(t *testing.T) {
	data := `# exported
newmtl body
Kd 0.8 0.8 0.8
map_Kd textures\body.png
map_Kd ignored.png

newmtl plain
Kd 1 0 0

newmtl head
map_Kd head.tga
`
	materials, err := ParseMTL([]byte(data))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}
	if len(materials) != 2 {
		t.Fatalf("expected 2 textured materials, got %d", len(materials))
	}
	if materials[0].Name != "body" || materials[0].DiffuseMap != filepath.Join("textures", "body.png") {
		t.Errorf("unexpected first material: %+v", materials[0])
	}
	if materials[1].DiffuseMap != "head.tga" {
		t.Errorf("unexpected second material: %+v", materials[1])
	}

	path, err := DiffuseMap(materials)
	if err != nil || path != materials[0].DiffuseMap {
		t.Errorf("DiffuseMap() = %q, %v", path, err)
	}
}

func TestParseMTL_WithoutNewmtl(t *testing.T) {
	materials, err := ParseMTL([]byte("map_Kd skin.png\n"))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}
	if materials[0].DiffuseMap != "skin.png" {
		t.Errorf("expected skin.png, got %q", materials[0].DiffuseMap)
	}
}

func TestParseMTL_NoTexture(t *testing.T) {
	_, err := ParseMTL([]byte("newmtl a\nKd 1 1 1\n"))
	if !errors.Is(err, ErrNoTexture) {
		t.Errorf("expected ErrNoTexture, got %v", err)
	}
	if _, err := DiffuseMap(nil); !errors.Is(err, ErrNoTexture) {
		t.Errorf("expected ErrNoTexture from DiffuseMap(nil), got %v", err)
	}
}

func TestParseMTLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.mtl")
	if err := os.WriteFile(path, []byte("newmtl a\nmap_Kd a.png\n"), 0644); err != nil {
		t.Fatal(err)
	}

	materials, err := ParseMTLFile(path)
	if err != nil {
		t.Fatalf("ParseMTLFile failed: %v", err)
	}
	if len(materials) != 1 || materials[0].DiffuseMap != "a.png" {
		t.Errorf("unexpected materials: %+v", materials)
	}

	if _, err := ParseMTLFile(filepath.Join(t.TempDir(), "missing.mtl")); err == nil {
		t.Error("expected error for missing file")
	}
}
