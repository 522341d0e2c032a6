package config

import "flag"

// Flags are the command-line overrides shared by subcommands.
// Only flags the user actually set override file values.
type Flags struct {
	fs *flag.FlagSet

	config      *string
	debug       *bool
	logFile     *string
	output      *string
	chunkSize   *int
	blockName   *string
	floodFill   *bool
	fillLimit   *int
	scale       *float64
	dataVersion *int
	mode        *string
	palette     *string
	weights     *string
	material    *string
	texture     *string
	seed        *uint64
	report      *bool
	metrics     *string
	history     *string
}

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:          fs,
		config:      fs.String("config", "", "Path to config file"),
		debug:       fs.Bool("debug", false, "Enable debug logging"),
		logFile:     fs.String("log-file", "", "Also write logs to this file"),
		output:      fs.String("o", "", "Output .nbt path (default: input with .nbt)"),
		chunkSize:   fs.Int("chunk-size", -1, "Split output into files of at least this many blocks"),
		blockName:   fs.String("block", DefaultBlockName, "Block id for uncolored output"),
		floodFill:   fs.Bool("fill", false, "Fill the model interior (the bounding box center must be inside)"),
		fillLimit:   fs.Int("fill-limit", DefaultFillLimit, "Maximum cells visited by the interior fill"),
		scale:       fs.Float64("scale", 0, "Scale factor (0 derives it from the first face edge)"),
		dataVersion: fs.Int("data-version", 0, "DataVersion written to structure files (0 omits it)"),
		mode:        fs.String("mode", "", "Color mode: none, texture or random"),
		palette:     fs.String("palette", DefaultPalette, "Palette family (terracotta, wool, concrete, glass) or CSV file"),
		weights:     fs.String("weights", "", "Weight table CSV for random colorization"),
		material:    fs.String("mtl", "", "Material file naming the texture (map_Kd)"),
		texture:     fs.String("texture", "", "Texture image, overrides the material"),
		seed:        fs.Uint64("seed", 0, "Random seed (0 picks one from the clock)"),
		report:      fs.Bool("report", false, "Write a JSON run report next to the output"),
		metrics:     fs.String("metrics", "", "Write Prometheus metrics to this textfile"),
		history:     fs.String("history", "", "Record runs in this SQLite database"),
	}
}

// ConfigPath returns the explicit config path if provided via --config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// Apply applies the flags the user set to cfg.
func (f *Flags) Apply(cfg *Config) {
	if f == nil {
		return
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if *f.debug {
				cfg.Logging.Level = "debug"
			}
		case "log-file":
			cfg.Logging.LogFile = *f.logFile
		case "o":
			cfg.Output.Path = *f.output
		case "chunk-size":
			cfg.Conversion.ChunkSize = *f.chunkSize
		case "block":
			cfg.Conversion.BlockName = *f.blockName
		case "fill":
			cfg.Conversion.FloodFill = *f.floodFill
		case "fill-limit":
			cfg.Conversion.FillLimit = *f.fillLimit
		case "scale":
			cfg.Conversion.Scale = *f.scale
		case "data-version":
			cfg.Conversion.DataVersion = int32(*f.dataVersion)
		case "mode":
			cfg.Color.Mode = *f.mode
		case "palette":
			cfg.Color.Palette = *f.palette
		case "weights":
			cfg.Color.Weights = *f.weights
		case "mtl":
			cfg.Color.Material = *f.material
		case "texture":
			cfg.Color.Texture = *f.texture
		case "seed":
			cfg.Color.Seed = *f.seed
		case "report":
			cfg.Output.Report = *f.report
		case "metrics":
			cfg.Metrics.Textfile = *f.metrics
		case "history":
			cfg.History.Database = *f.history
		}
	})
}
