// Package config handles converter configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Color modes.
const (
	ModeNone    = "none"
	ModeTexture = "texture"
	ModeRandom  = "random"
)

// Defaults shared with the converter.
const (
	DefaultBlockName = "minecraft:stone"
	DefaultPalette   = "terracotta"
	DefaultFillLimit = 10_000_000
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all converter settings.
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Color      ColorConfig      `yaml:"color"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	History    HistoryConfig    `yaml:"history"`
}

// ConversionConfig holds geometry pipeline settings.
type ConversionConfig struct {
	FloodFill bool    `yaml:"flood_fill"`
	FillLimit int     `yaml:"fill_limit"`
	ChunkSize int     `yaml:"chunk_size"` // <= 0 writes a single file
	BlockName string  `yaml:"block_name"` // Block used when no color mode applies
	Scale     float64 `yaml:"scale"`      // 0 derives the scale from the first face
	// DataVersion is written into structure files when non-zero.
	DataVersion int32 `yaml:"data_version"`
}

// ColorConfig selects and parameterizes colorization.
type ColorConfig struct {
	// Mode is none, texture or random. Empty infers it from Texture,
	// Material and Weights.
	Mode          string `yaml:"mode"`
	Palette       string `yaml:"palette"` // Built-in family or path to a CSV table
	Weights       string `yaml:"weights"` // Weight table for random mode
	Material      string `yaml:"material"`
	Texture       string `yaml:"texture"`
	Seed          uint64 `yaml:"seed"` // 0 picks a time-based seed
	FallbackBlock string `yaml:"fallback_block"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Path   string `yaml:"path"`   // Defaults to the input with .nbt
	Report bool   `yaml:"report"` // Write <output>.report.json
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // Prometheus textfile collector output
}

// HistoryConfig holds conversion history settings.
type HistoryConfig struct {
	Database string `yaml:"database"` // SQLite file; empty disables history
	Limit    int    `yaml:"limit"`    // Rows shown by info --history
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Conversion: ConversionConfig{
			FloodFill: false,
			FillLimit: DefaultFillLimit,
			ChunkSize: -1,
			BlockName: DefaultBlockName,
		},
		Color: ColorConfig{
			Palette:       DefaultPalette,
			FallbackBlock: DefaultBlockName,
		},
		Output: OutputConfig{
			Report: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		History: HistoryConfig{
			Limit: 20,
		},
	}
}

// Validate checks values that would otherwise fail deep inside a conversion.
func (c *Config) Validate() error {
	switch c.Color.Mode {
	case "", ModeNone, ModeTexture, ModeRandom:
	default:
		return fmt.Errorf("%w: unknown color mode %q", ErrInvalidConfig, c.Color.Mode)
	}
	if c.Conversion.FillLimit <= 0 {
		return fmt.Errorf("%w: fill_limit must be positive", ErrInvalidConfig)
	}
	if c.Conversion.Scale < 0 {
		return fmt.Errorf("%w: scale must not be negative", ErrInvalidConfig)
	}
	if c.Conversion.BlockName == "" {
		return fmt.Errorf("%w: block_name is empty", ErrInvalidConfig)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("%w: history limit must not be negative", ErrInvalidConfig)
	}
	return nil
}
