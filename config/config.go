// Package config loads difficulty presets and runtime settings from HCL.
//
// A config file looks like:
//
//	records   = "sweeper.db"
//	log_level = "info"
//	default   = "beginner"
//
//	preset "beginner" {
//	  width  = 9
//	  height = 9
//	  mines  = 10
//	}
//
// Expressions may call density(width, height, percent), min, max, floor and
// ceil.
package config

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/sirupsen/logrus"

	"github.com/tomasstrnad1997/sweeper/mines"
)

//go:embed defaults.hcl
var defaultsHCL []byte

// firstClickBlock is the number of cells kept free of mines around the first
// reveal.
const firstClickBlock = 9

var (
	ErrNoPresets       = errors.New("no presets defined")
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrDuplicatePreset = errors.New("duplicate preset")
)

type PresetError struct {
	Preset string
	Err    error
}

func (e *PresetError) Error() string {
	return fmt.Sprintf("preset %q: %v", e.Preset, e.Err)
}

func (e *PresetError) Unwrap() error {
	return e.Err
}

type Preset struct {
	Name   string `hcl:"name,label"`
	Width  int    `hcl:"width"`
	Height int    `hcl:"height"`
	Mines  int    `hcl:"mines"`
}

func (p *Preset) Params() mines.GameParams {
	return mines.GameParams{Width: p.Width, Height: p.Height, Mines: p.Mines}
}

func (p *Preset) validate() error {
	switch {
	case p.Width <= 0:
		return &PresetError{p.Name, fmt.Errorf("width must be positive, got %d", p.Width)}
	case p.Height <= 0:
		return &PresetError{p.Name, fmt.Errorf("height must be positive, got %d", p.Height)}
	case p.Mines <= 0:
		return &PresetError{p.Name, fmt.Errorf("mines must be positive, got %d", p.Mines)}
	case p.Mines > p.Width*p.Height-firstClickBlock:
		return &PresetError{p.Name, fmt.Errorf("%d mines do not fit a %dx%d board around the first click",
			p.Mines, p.Width, p.Height)}
	}
	return nil
}

type Config struct {
	Records  string    `hcl:"records,optional"`
	LogLevel string    `hcl:"log_level,optional"`
	Default  string    `hcl:"default,optional"`
	Presets  []*Preset `hcl:"preset,block"`
}

// Default returns the built-in presets.
func Default() (*Config, error) {
	return Parse(defaultsHCL, "defaults.hcl")
}

// Load reads a config file from disk.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decode(file, path)
}

// Parse reads a config from src. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) (*Config, error) {
	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = logrus.InfoLevel.String()
	}
	if cfg.Default == "" && len(cfg.Presets) > 0 {
		cfg.Default = cfg.Presets[0].Name
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Presets) == 0 {
		return ErrNoPresets
	}
	seen := make(map[string]bool, len(c.Presets))
	for _, p := range c.Presets {
		if seen[p.Name] {
			return &PresetError{p.Name, ErrDuplicatePreset}
		}
		seen[p.Name] = true
		if err := p.validate(); err != nil {
			return err
		}
	}
	if !seen[c.Default] {
		return fmt.Errorf("default %q: %w", c.Default, ErrUnknownPreset)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Preset looks a preset up by name. An empty name selects the default.
func (c *Config) Preset(name string) (*Preset, error) {
	if name == "" {
		name = c.Default
	}
	for _, p := range c.Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
}

func (c *Config) Names() []string {
	names := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		names[i] = p.Name
	}
	return names
}

// Level is the configured log level. Config validation guarantees it parses.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
