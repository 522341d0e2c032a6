// Package convert runs the mesh to structure pipeline: parse, normalize,
// project, optionally fill, colorize and write structure files.
package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/obj2nbt/internal/config"
	"github.com/Faultbox/obj2nbt/internal/history"
	"github.com/Faultbox/obj2nbt/internal/logger"
	"github.com/Faultbox/obj2nbt/internal/metrics"
	"github.com/Faultbox/obj2nbt/pkg/formats"
	"github.com/Faultbox/obj2nbt/pkg/voxel"
)

// Input errors.
var (
	ErrInputNotFound    = errors.New("input file not found")
	ErrInputExtension   = errors.New("input is not an .obj file")
	ErrConflictingModes = errors.New("texture and random colorization cannot be combined")
)

// Options configures one conversion.
type Options struct {
	Input  string
	Config *config.Config

	// Metrics and History are optional.
	Metrics *metrics.Recorder
	History *history.Store
}

// Result summarizes a conversion.
type Result struct {
	RunID   string
	Input   string
	Outputs []string
	Mode    string

	Vertices     int
	Faces        int
	DroppedFaces int
	SkippedFaces int
	Scale        float64

	ShellVoxels  int
	FilledVoxels int
	TotalVoxels  int
	Fill         *FillStats

	Seed     uint64
	Texture  string
	Colored  int // Voxels colored from the texture
	Fallback int // Voxels that fell back to the fallback block
	Blocks   map[string]int

	ReportPath string
	Duration   time.Duration
}

// FillStats describes the interior fill.
type FillStats struct {
	Seed        voxel.Coord
	Filled      int
	Truncated   bool
	SeedOnShell bool
}

// Run converts opts.Input and writes the structure file(s).
func Run(opts Options) (*Result, error) {
	start := time.Now()
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	res := &Result{
		RunID: uuid.NewString(),
		Input: opts.Input,
	}
	log := logger.Log.With(zap.String("run", res.RunID), zap.String("input", opts.Input))

	err := run(opts.Input, cfg, opts.Metrics, res, log)
	res.Duration = time.Since(start)
	opts.Metrics.ObserveDuration(res.Duration)

	if opts.History != nil {
		if herr := opts.History.Record(historyRun(res, start, err)); herr != nil {
			log.Warn("recording history failed", zap.Error(herr))
		}
	}
	if cfg.Metrics.Textfile != "" {
		if merr := opts.Metrics.WriteTextfile(cfg.Metrics.Textfile); merr != nil {
			log.Warn("writing metrics textfile failed", zap.String("path", cfg.Metrics.Textfile), zap.Error(merr))
		}
	}
	if err != nil {
		return nil, err
	}

	if cfg.Output.Report && len(res.Outputs) > 0 {
		res.ReportPath = res.Outputs[0] + ".report.json"
		if err := WriteReport(res.ReportPath, res); err != nil {
			return nil, err
		}
	}

	log.Info("conversion finished",
		zap.Int("voxels", res.TotalVoxels),
		zap.Int("files", len(res.Outputs)),
		zap.Duration("took", res.Duration))
	return res, nil
}

func run(input string, cfg *config.Config, rec *metrics.Recorder, res *Result, log *zap.Logger) error {
	if err := ValidateInput(input); err != nil {
		return err
	}
	mode, err := ResolveMode(cfg.Color)
	if err != nil {
		return err
	}
	res.Mode = mode

	mesh, err := formats.ParseOBJFile(input)
	if err != nil {
		return err
	}
	for _, d := range mesh.Diagnostics {
		log.Warn("skipped mesh line", zap.Int("line", d.Line), zap.String("text", d.Text), zap.String("reason", d.Reason))
	}
	if mesh.DroppedFaces > 0 {
		log.Debug("dropped non-quad faces", zap.Int("count", mesh.DroppedFaces))
	}
	res.Vertices = len(mesh.Vertices)
	res.Faces = len(mesh.Faces)
	res.DroppedFaces = mesh.DroppedFaces
	rec.CountFaces(metrics.FaceDropped, mesh.DroppedFaces)

	norm, err := voxel.Normalize(mesh, cfg.Conversion.Scale)
	if err != nil {
		return err
	}
	res.Scale = norm.Scale
	log.Debug("normalized mesh", zap.Float64("scale", norm.Scale), zap.Stringer("origin", norm.Origin))

	proj := voxel.Project(norm, mesh.Faces, mode == config.ModeTexture)
	for _, fi := range proj.Skipped {
		log.Warn("skipped face with non axis aligned normal", zap.Int("face", fi+1))
	}
	res.SkippedFaces = len(proj.Skipped)
	res.ShellVoxels = proj.Grid.Len()
	rec.CountFaces(metrics.FaceSkipped, len(proj.Skipped))
	rec.CountFaces(metrics.FaceProjected, len(mesh.Faces)-len(proj.Skipped))
	rec.CountVoxels(metrics.StageShell, res.ShellVoxels)
	if res.ShellVoxels == 0 {
		return fmt.Errorf("%w: every face was skipped", voxel.ErrEmptyGrid)
	}

	grid := proj.Grid
	if cfg.Conversion.FloodFill {
		fill, err := voxel.Fill(grid, cfg.Conversion.FillLimit)
		if err != nil {
			return err
		}
		if fill.SeedOnShell {
			log.Warn("fill seed lies on the shell, nothing filled", zap.Stringer("seed", fill.Seed))
		}
		if fill.Truncated {
			log.Warn("fill stopped at its limit, interior is partial",
				zap.Int("limit", cfg.Conversion.FillLimit), zap.Stringer("seed", fill.Seed))
		}
		grid = fill.Grid
		res.FilledVoxels = fill.Filled
		res.Fill = &FillStats{
			Seed:        fill.Seed,
			Filled:      fill.Filled,
			Truncated:   fill.Truncated,
			SeedOnShell: fill.SeedOnShell,
		}
		rec.CountVoxels(metrics.StageFill, fill.Filled)
		rec.SetFillTruncated(fill.Truncated)
	}
	res.TotalVoxels = grid.Len()

	c := &colorizer{cfg: cfg, input: input, mesh: mesh, log: log}
	assign, err := c.colorize(mode, grid, proj.Sources)
	if err != nil {
		return err
	}
	res.Mode = c.mode
	res.Seed = c.seed
	res.Texture = c.texture
	res.Colored = c.colored
	res.Fallback = c.fallback
	res.Blocks = assign.Histogram()
	rec.CountVoxels(metrics.StageColored, c.colored)
	rec.CountVoxels(metrics.StageFallback, c.fallback)

	outputs, err := writeStructures(OutputPath(input, cfg.Output.Path), assign, cfg.Conversion, log)
	if err != nil {
		return err
	}
	res.Outputs = outputs
	rec.CountVoxels(metrics.StageOutput, len(assign))
	rec.CountOutputFiles(len(outputs))
	return nil
}

// ValidateInput checks that path exists and names an .obj file.
func ValidateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".obj") {
		return fmt.Errorf("%w: %s", ErrInputExtension, path)
	}
	return nil
}

// ResolveMode picks the color mode. An explicit mode wins; otherwise a
// texture or material selects texture mode and a weight table selects
// random mode. Asking for both is an error.
func ResolveMode(c config.ColorConfig) (string, error) {
	wantsTexture := c.Texture != "" || c.Material != ""
	wantsRandom := c.Weights != ""

	switch c.Mode {
	case config.ModeNone, config.ModeTexture:
		return c.Mode, nil
	case config.ModeRandom:
		if !wantsRandom {
			return "", fmt.Errorf("%w: random mode needs a weight table", config.ErrInvalidConfig)
		}
		return c.Mode, nil
	case "":
	default:
		return "", fmt.Errorf("%w: unknown color mode %q", config.ErrInvalidConfig, c.Mode)
	}

	switch {
	case wantsTexture && wantsRandom:
		return "", ErrConflictingModes
	case wantsTexture:
		return config.ModeTexture, nil
	case wantsRandom:
		return config.ModeRandom, nil
	}
	return config.ModeNone, nil
}

func historyRun(res *Result, start time.Time, err error) *history.Run {
	run := &history.Run{
		ID:           res.RunID,
		StartedAt:    start,
		Input:        res.Input,
		Files:        len(res.Outputs),
		Mode:         res.Mode,
		Faces:        res.Faces,
		SkippedFaces: res.SkippedFaces,
		ShellVoxels:  res.ShellVoxels,
		FilledVoxels: res.FilledVoxels,
		TotalVoxels:  res.TotalVoxels,
		PaletteSize:  len(res.Blocks),
		DurationMS:   res.Duration.Milliseconds(),
	}
	if len(res.Outputs) > 0 {
		run.Output = res.Outputs[0]
	}
	if res.Fill != nil {
		run.FillTruncated = res.Fill.Truncated
	}
	if err != nil {
		run.Error = err.Error()
	}
	return run
}
