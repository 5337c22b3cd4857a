package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mavwarf/chaticon/internal/paths"
)

// DefaultEngine is the rasterizer used when none is configured. It is
// linked into the binary, so it is always available.
const DefaultEngine = "oksvg"

// MaxSupersample bounds the oksvg supersampling factor.
const MaxSupersample = 8

// Config holds the generator options. Icon geometry is fixed and not
// configurable; only where and how the files are produced is.
type Config struct {
	OutputDir   string `json:"output_dir,omitempty"`
	Engine      string `json:"engine,omitempty"`      // "oksvg" | "inkscape" | "rsvg-convert" | "none"
	Supersample int    `json:"supersample,omitempty"` // oksvg only, 1 = off
	Log         bool   `json:"log,omitempty"`
	Storage     string `json:"storage,omitempty"` // "file" | "sqlite"
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		OutputDir:   paths.DefaultOutDir,
		Engine:      DefaultEngine,
		Supersample: 1,
		Storage:     "file",
	}
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = Default()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Validate checks option values that can be verified without touching the
// environment. Engine availability is checked when the rasterizer is
// detected.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.Supersample < 1 || c.Supersample > MaxSupersample {
		return fmt.Errorf("supersample must be between 1 and %d, got %d", MaxSupersample, c.Supersample)
	}
	switch c.Storage {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("storage must be \"file\" or \"sqlite\", got %q", c.Storage)
	}
	return nil
}

// Load reads and parses a config file. It tries, in order:
//  1. explicitPath (if non-empty)
//  2. chaticon-config.json next to the running binary
//  3. chaticon-config.json in paths.DataDir()
//
// A missing file is not an error unless explicitPath was given; the
// defaults apply. The second return value is the file that was read, or ""
// when defaults were used.
func Load(explicitPath string) (Config, string, error) {
	if explicitPath != "" {
		cfg, err := readConfig(explicitPath)
		return cfg, explicitPath, err
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			cfg, err := readConfig(p)
			return cfg, p, err
		}
	}

	// User config directory
	p := filepath.Join(paths.DataDir(), paths.ConfigFileName)
	if _, err := os.Stat(p); err == nil {
		cfg, err := readConfig(p)
		return cfg, p, err
	}

	return Default(), "", nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
