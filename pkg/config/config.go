// Package config loads the optional bpflint project configuration.
//
// A configuration file is YAML (.bpflint.yaml, .bpflint.yml) or TOML
// (.bpflint.toml). Unknown keys are rejected in both formats.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatSARIF    = "sarif"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// FileNames are the configuration files Find looks for, in order.
var FileNames = []string{".bpflint.yaml", ".bpflint.yml", ".bpflint.toml"}

// ErrUnsupportedFormat is returned for files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported configuration file format")

// Lints selects lints by name.
type Lints struct {
	Include []string `yaml:"include" toml:"include"` // regexes; empty selects all
	Exclude []string `yaml:"exclude" toml:"exclude"` // regexes
}

// Config is the project configuration.
type Config struct {
	Lints     Lints    `yaml:"lints" toml:"lints"`
	Format    string   `yaml:"format" toml:"format"`
	Color     string   `yaml:"color" toml:"color"`
	Jobs      int      `yaml:"jobs" toml:"jobs"`
	Ignore    []string `yaml:"ignore" toml:"ignore"`
	Prefilter *bool    `yaml:"prefilter" toml:"prefilter"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Format: FormatTerminal,
		Color:  ColorAuto,
	}
}

// PrefilterEnabled reports whether the keyword prefilter should run.
func (c Config) PrefilterEnabled() bool {
	return c.Prefilter == nil || *c.Prefilter
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if !slices.Contains([]string{FormatTerminal, FormatJSON, FormatSARIF}, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of terminal, json, sarif", c.Format)
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		return fmt.Errorf("invalid color %q: must be one of auto, always, never", c.Color)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("invalid jobs %d: must not be negative", c.Jobs)
	}
	return nil
}

// Load reads the configuration file at path. Fields the file leaves unset
// keep their Default values.
func Load(path string) (Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := decodeYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	case ".toml":
		if err := decodeTOML(path, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return nil
}

func decodeTOML(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Find returns the first configuration file from FileNames present in dir,
// or "" if there is none.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", nil
}

// Discover loads the configuration found in dir, or Default if there is
// none. The returned path is empty in the latter case.
func Discover(dir string) (Config, string, error) {
	path, err := Find(dir)
	if err != nil {
		return Config{}, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}
