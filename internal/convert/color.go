package convert

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/obj2nbt/internal/assets"
	"github.com/Faultbox/obj2nbt/internal/config"
	"github.com/Faultbox/obj2nbt/internal/texture"
	"github.com/Faultbox/obj2nbt/pkg/formats"
	"github.com/Faultbox/obj2nbt/pkg/math"
	"github.com/Faultbox/obj2nbt/pkg/palette"
	"github.com/Faultbox/obj2nbt/pkg/voxel"
)

// colorizer assigns block ids to the final grid and remembers what it did.
type colorizer struct {
	cfg   *config.Config
	input string
	mesh  *formats.Mesh
	log   *zap.Logger

	assets *assets.Manager

	mode     string
	seed     uint64
	texture  string
	colored  int
	fallback int
}

func (c *colorizer) logAssets() {
	hits, misses := c.assets.Stats()
	c.log.Debug("asset cache",
		zap.Strings("roots", c.assets.Roots()),
		zap.Int("entries", c.assets.Entries()),
		zap.Int("hits", hits),
		zap.Int("misses", misses))
}

func (c *colorizer) colorize(mode string, grid voxel.Grid, sources map[voxel.Coord][]int) (voxel.Assignment, error) {
	c.mode = mode
	c.assets = assets.NewManager(filepath.Dir(c.input))
	defer c.assets.Close()
	defer c.logAssets()

	switch mode {
	case config.ModeRandom:
		return c.random(grid)
	case config.ModeTexture:
		sampler, err := c.loadSampler()
		if err == nil {
			return c.textured(grid, sources, sampler)
		}
		// A missing texture only costs the color.
		c.log.Warn("texture unavailable, writing uncolored output", zap.Error(err))
		c.mode = config.ModeNone
	}
	return voxel.Uniform(grid, c.cfg.Conversion.BlockName), nil
}

func (c *colorizer) random(grid voxel.Grid) (voxel.Assignment, error) {
	data, path, err := c.assets.Load(c.cfg.Color.Weights)
	if err != nil {
		return nil, fmt.Errorf("loading weight table: %w", err)
	}
	table, diags := palette.ParseWeights(data)
	for _, d := range diags {
		c.log.Warn("skipped weight table line", zap.String("file", path),
			zap.Int("line", d.Line), zap.String("text", d.Text), zap.String("reason", d.Reason))
	}
	if table.Total() <= 0 {
		return nil, fmt.Errorf("%w: %s", palette.ErrEmptyWeightTable, path)
	}

	c.seed = c.cfg.Color.Seed
	if c.seed == 0 {
		c.seed = uint64(time.Now().UnixNano())
		c.log.Info("picked random seed", zap.Uint64("seed", c.seed))
	}
	rng := rand.New(rand.NewPCG(c.seed, c.seed))

	assign, err := voxel.Colorize(grid, table, rng)
	if err != nil {
		return nil, err
	}
	c.colored = len(assign)
	return assign, nil
}

// loadSampler finds the texture: an explicit texture wins, then the
// configured material, then the first mtllib of the mesh.
func (c *colorizer) loadSampler() (*texture.Sampler, error) {
	name := c.cfg.Color.Texture
	if name == "" {
		material := c.cfg.Color.Material
		if material == "" && len(c.mesh.MaterialLibs) > 0 {
			material = c.mesh.MaterialLibs[0]
		}
		if material == "" {
			return nil, formats.ErrNoTexture
		}

		data, path, err := c.assets.Load(material)
		if err != nil {
			return nil, fmt.Errorf("loading material: %w", err)
		}
		materials, err := formats.ParseMTL(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if name, err = formats.DiffuseMap(materials); err != nil {
			return nil, err
		}
		// Texture paths are relative to the material file.
		if err := c.assets.AddRoot(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	data, path, err := c.assets.Load(name)
	if err != nil {
		return nil, fmt.Errorf("loading texture: %w", err)
	}
	img, err := texture.Decode(data, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sampler := texture.NewSampler(img)
	if sampler == nil {
		return nil, fmt.Errorf("%s: texture is empty", path)
	}

	c.texture = path
	w, h := sampler.Size()
	c.log.Info("loaded texture", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
	return sampler, nil
}

// loadPalette returns a built-in family or a palette table file.
func (c *colorizer) loadPalette() (*palette.Palette, error) {
	name := c.cfg.Color.Palette
	if name == "" {
		name = config.DefaultPalette
	}
	if palette.IsFamily(name) {
		return palette.Default(name)
	}

	data, path, err := c.assets.Load(name)
	if errors.Is(err, assets.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q is neither a family nor a file", palette.ErrUnknownFamily, name)
	}
	if err != nil {
		return nil, err
	}
	pal, diags := palette.Parse(data)
	for _, d := range diags {
		c.log.Warn("skipped palette line", zap.String("file", path),
			zap.Int("line", d.Line), zap.String("text", d.Text), zap.String("reason", d.Reason))
	}
	if pal.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", palette.ErrEmptyPalette, path)
	}
	return pal, nil
}

// textured colors each shell cell by the texture under its faces and maps
// the color to the nearest palette block. Cells without a sample (interior
// fill, faces without UVs) get the fallback block.
func (c *colorizer) textured(grid voxel.Grid, sources map[voxel.Coord][]int, sampler *texture.Sampler) (voxel.Assignment, error) {
	pal, err := c.loadPalette()
	if err != nil {
		return nil, err
	}
	fallback := c.cfg.Color.FallbackBlock
	if fallback == "" {
		fallback = c.cfg.Conversion.BlockName
	}

	matches := make(map[palette.RGB]string)
	assign := make(voxel.Assignment, len(grid))
	var uvs [][4]math.Vec2

	for cell := range grid {
		uvs = uvs[:0]
		for _, fi := range sources[cell] {
			face := c.mesh.Faces[fi]
			if face.TexCoords == nil {
				continue
			}
			var quad [4]math.Vec2
			for k, ti := range face.TexCoords {
				quad[k] = c.mesh.TexCoords[ti]
			}
			uvs = append(uvs, quad)
		}

		rgb, ok := sampler.Sample(uvs)
		if !ok {
			assign[cell] = fallback
			c.fallback++
			continue
		}
		id, cached := matches[rgb]
		if !cached {
			id, _ = pal.BestMatch(rgb)
			matches[rgb] = id
		}
		assign[cell] = id
		c.colored++
	}

	c.log.Debug("matched texture colors", zap.Int("distinct", len(matches)),
		zap.Int("colored", c.colored), zap.Int("fallback", c.fallback))
	return assign, nil
}
