package formats

// MTL (material library) parser. Only the diffuse texture map is used.

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/obj2nbt/pkg/encoding"
)

// ErrNoTexture is returned when a material library has no map_Kd directive.
var ErrNoTexture = errors.New("no map_Kd texture in material")

// Material holds the parts of an MTL file the colorizer needs.
type Material struct {
	Name       string
	DiffuseMap string
}

// ParseMTL parses MTL text and returns every material with a diffuse map.
// Materials are returned in file order.
func ParseMTL(data []byte) ([]Material, error) {
	var materials []Material
	current := Material{}

	flush := func() {
		if current.DiffuseMap != "" {
			materials = append(materials, current)
		}
	}

	for _, raw := range encoding.Lines(encoding.ToUTF8String(data)) {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "newmtl "):
			flush()
			current = Material{Name: strings.TrimSpace(line[len("newmtl "):])}
		case strings.HasPrefix(line, "map_Kd "):
			if path := strings.TrimSpace(line[len("map_Kd "):]); path != "" && current.DiffuseMap == "" {
				current.DiffuseMap = encoding.NormalizeAssetPath(path)
			}
		}
	}
	flush()

	if len(materials) == 0 {
		return nil, ErrNoTexture
	}
	return materials, nil
}

// ParseMTLFile parses an MTL file from disk.
func ParseMTLFile(path string) ([]Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MTL file: %w", err)
	}
	return ParseMTL(data)
}

// DiffuseMap returns the first diffuse texture path in the material library.
func DiffuseMap(materials []Material) (string, error) {
	if len(materials) == 0 {
		return "", ErrNoTexture
	}
	return materials[0].DiffuseMap, nil
}
