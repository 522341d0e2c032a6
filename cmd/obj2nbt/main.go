// obj2nbt converts quad meshes (Wavefront OBJ) into structure files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/obj2nbt/internal/config"
	"github.com/Faultbox/obj2nbt/internal/convert"
	"github.com/Faultbox/obj2nbt/internal/history"
	"github.com/Faultbox/obj2nbt/internal/logger"
	"github.com/Faultbox/obj2nbt/internal/metrics"
	"github.com/Faultbox/obj2nbt/internal/texture"
	"github.com/Faultbox/obj2nbt/pkg/formats"
	"github.com/Faultbox/obj2nbt/pkg/nbt"
	"github.com/Faultbox/obj2nbt/pkg/palette"
	"github.com/Faultbox/obj2nbt/pkg/voxel"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "convert", "c":
		err = cmdConvert(args)
	case "info":
		err = cmdInfo(args)
	case "palette":
		err = cmdPalette(args)
	case "history":
		err = cmdHistory(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`obj2nbt - quad mesh to structure file converter

Usage:
  obj2nbt <command> [options]

Commands:
  convert <model.obj> [flags]        Convert a mesh to a structure file
  info <model.obj|file.nbt>          Show mesh or structure statistics
  palette [family|file.csv]          List palette entries (no argument lists families)
  history [-n N] [flags]             Show recent conversions
  config init [path]                 Write the default config
  config show [flags]                Print the effective config

Examples:
  obj2nbt convert house.obj -fill
  obj2nbt convert statue.obj -mtl statue.mtl -palette wool
  obj2nbt convert rock.obj -weights stones.csv -seed 42 -chunk-size 4096
  obj2nbt info house.nbt

Run "obj2nbt convert -h" for the full flag list.`)
}

// parseArgs parses flags that may appear before or after positional args.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// setup loads config and starts logging for commands that honor flags.
func setup(fs *flag.FlagSet, args []string) (*config.Config, []string, error) {
	flags := config.RegisterFlags(fs)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
		fileCfg.JSON = cfg.Logging.JSON
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		return nil, nil, err
	}
	return cfg, positional, nil
}

func cmdConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	cfg, positional, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(positional) != 1 {
		return errors.New("usage: obj2nbt convert <model.obj> [flags]")
	}

	opts := convert.Options{Input: positional[0], Config: cfg}
	if cfg.Metrics.Textfile != "" {
		opts.Metrics = metrics.New()
	}
	if cfg.History.Database != "" {
		store, err := history.Open(cfg.History.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.History = store
	}

	res, err := convert.Run(opts)
	if err != nil {
		return err
	}

	fmt.Printf("Input:   %s\n", res.Input)
	fmt.Printf("Mode:    %s\n", res.Mode)
	fmt.Printf("Faces:   %d quads (%d dropped, %d skipped)\n", res.Faces, res.DroppedFaces, res.SkippedFaces)
	fmt.Printf("Voxels:  %d (shell %d, filled %d)\n", res.TotalVoxels, res.ShellVoxels, res.FilledVoxels)
	if res.Fill != nil && res.Fill.Truncated {
		fmt.Println("Warning: interior fill hit its limit; the model may be open or the seed outside it")
	}
	if res.Mode == config.ModeRandom {
		fmt.Printf("Seed:    %d\n", res.Seed)
	}
	fmt.Printf("Blocks:  %d distinct\n", len(res.Blocks))
	for _, out := range res.Outputs {
		fmt.Printf("Wrote:   %s\n", out)
	}
	if res.ReportPath != "" {
		fmt.Printf("Report:  %s\n", res.ReportPath)
	}
	return nil
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: obj2nbt info <model.obj|file.nbt>")
	}

	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nbt":
		return infoStructure(path)
	case ".obj":
		return infoMesh(path)
	default:
		return fmt.Errorf("%w: %s", convert.ErrInputExtension, path)
	}
}

func infoMesh(path string) error {
	mesh, err := formats.ParseOBJFile(path)
	if err != nil {
		return err
	}

	lo, hi := mesh.Bounds()
	fmt.Printf("Mesh:        %s\n", path)
	fmt.Printf("Vertices:    %d\n", len(mesh.Vertices))
	fmt.Printf("TexCoords:   %d\n", len(mesh.TexCoords))
	fmt.Printf("Quads:       %d (%d textured)\n", len(mesh.Faces), mesh.TexturedFaces())
	fmt.Printf("Dropped:     %d non-quad faces\n", mesh.DroppedFaces)
	fmt.Printf("Bounds:      %v .. %v\n", lo, hi)
	if len(mesh.MaterialLibs) > 0 {
		fmt.Printf("Materials:   %s\n", strings.Join(mesh.MaterialLibs, ", "))
		infoTexture(filepath.Join(filepath.Dir(path), mesh.MaterialLibs[0]))
	}
	for _, d := range mesh.Diagnostics {
		fmt.Printf("Skipped:     %s\n", d)
	}

	norm, err := voxel.Normalize(mesh, 0)
	if err != nil {
		fmt.Printf("Scale:       %v\n", err)
		return nil
	}
	proj := voxel.Project(norm, mesh.Faces, false)
	fmt.Printf("Scale:       %g\n", norm.Scale)
	fmt.Printf("Shell:       %d voxels (%d faces not axis aligned)\n", proj.Grid.Len(), len(proj.Skipped))
	if b, ok := proj.Grid.Bounds(); ok {
		fmt.Printf("Size:        %v\n", b.Size())
	}
	return nil
}

// infoTexture reports the diffuse texture a material library points at.
// Problems are printed, not returned: the mesh is still usable without color.
func infoTexture(mtlPath string) {
	materials, err := formats.ParseMTLFile(mtlPath)
	if err != nil {
		fmt.Printf("Texture:     %v\n", err)
		return
	}
	name, err := formats.DiffuseMap(materials)
	if err != nil {
		fmt.Printf("Texture:     %v\n", err)
		return
	}

	texPath := name
	if !filepath.IsAbs(texPath) {
		texPath = filepath.Join(filepath.Dir(mtlPath), name)
	}
	img, err := texture.DecodeFile(texPath)
	if err != nil {
		fmt.Printf("Texture:     %s (%v)\n", name, err)
		return
	}
	b := img.Bounds()
	fmt.Printf("Texture:     %s (%dx%d)\n", name, b.Dx(), b.Dy())
}

func infoStructure(path string) error {
	doc, err := nbt.ReadFile(path)
	if err != nil {
		return err
	}
	s := doc.Structure

	counts := make([]int, len(s.Palette))
	for _, b := range s.Blocks {
		counts[b.State]++
	}

	fmt.Printf("Structure: %s\n", path)
	fmt.Printf("Size:      %d x %d x %d\n", s.Size[0], s.Size[1], s.Size[2])
	fmt.Printf("Blocks:    %d\n", len(s.Blocks))
	if doc.DataVersion > 0 {
		fmt.Printf("Version:   %d\n", doc.DataVersion)
	}
	fmt.Println()
	fmt.Println("Palette:")
	for i, id := range s.Palette {
		fmt.Printf("  %-40s %d\n", id, counts[i])
	}
	return nil
}

func cmdPalette(args []string) error {
	if len(args) < 1 {
		fmt.Println("Built-in families:")
		for _, f := range palette.Families() {
			fmt.Printf("  %s\n", f)
		}
		return nil
	}

	var pal *palette.Palette
	var diags []palette.Diagnostic
	var err error
	if palette.IsFamily(args[0]) {
		pal, err = palette.Default(args[0])
	} else {
		pal, diags, err = palette.ParseFile(args[0])
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "Skipped: %s\n", d)
	}
	if err != nil {
		return err
	}

	for _, e := range pal.Entries() {
		fmt.Printf("  %-40s %s\n", e.ID, e.Color.Hex())
	}
	fmt.Printf("%d entries\n", pal.Len())
	return nil
}

func cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 0, "Number of runs to show (default from config)")
	cfg, _, err := setup(fs, args)
	if err != nil {
		return err
	}
	if cfg.History.Database == "" {
		return errors.New("no history database configured (set history.database or -history)")
	}

	store, err := history.Open(cfg.History.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	n := cfg.History.Limit
	if *limit > 0 {
		n = *limit
	}
	runs, err := store.Recent(n)
	if err != nil {
		return err
	}

	for _, r := range runs {
		status := "ok"
		if r.Error != "" {
			status = "error: " + r.Error
		}
		fmt.Printf("%s  %s  %-8s %8d voxels  %6s  %s -> %s  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), shortID(r.ID), r.Mode, r.TotalVoxels,
			r.Duration(), r.Input, r.Output, status)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
	}
	return nil
}

func cmdConfig(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: obj2nbt config <init|show> [args]")
	}

	switch args[0] {
	case "init":
		cfg := config.Default()
		if len(args) > 1 {
			if err := cfg.SaveTo(args[1]); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", args[1])
			return nil
		}
		path, err := cfg.Save()
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil

	case "show":
		fs := flag.NewFlagSet("config show", flag.ExitOnError)
		cfg, _, err := setup(fs, args[1:])
		if err != nil {
			return err
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil

	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
