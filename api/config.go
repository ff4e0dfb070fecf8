package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the root configuration of the legends tools, read from an HCL
// file. Every attribute and block is optional.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `hcl:"log_level,optional"`
	// LogPretty selects console output instead of JSON lines.
	LogPretty bool `hcl:"log_pretty,optional"`

	Import   *ImportConfig   `hcl:"import,block"`
	Sanitize *SanitizeConfig `hcl:"sanitize,block"`
	Render   *RenderConfig   `hcl:"render,block"`
}

// ImportConfig controls the streaming importer.
type ImportConfig struct {
	// LenientIDs keeps a category whose identifiers are not contiguous,
	// logging a warning instead of failing the import.
	LenientIDs bool `hcl:"lenient_ids,optional"`
}

// SanitizeConfig controls the repair pass run when a document fails to parse.
type SanitizeConfig struct {
	// Placeholder replaces every invalid character. Only its first byte is used.
	Placeholder string `hcl:"placeholder,optional"`
	// BlockSize is the read size of the repair pass, in bytes.
	BlockSize int `hcl:"block_size,optional"`
	// Suffix is inserted before the extension of the sanitized copy.
	Suffix string `hcl:"suffix,optional"`
}

// RenderConfig controls page rendering.
type RenderConfig struct {
	Title string `hcl:"title,optional"`
	// Stylesheet is a path to a CSS file embedded in every page.
	Stylesheet string `hcl:"stylesheet,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Import == nil {
		c.Import = &ImportConfig{}
	}
	if c.Sanitize == nil {
		c.Sanitize = &SanitizeConfig{}
	}
	if c.Sanitize.Placeholder == "" {
		c.Sanitize.Placeholder = "?"
	}
	if c.Sanitize.BlockSize <= 0 {
		c.Sanitize.BlockSize = 64 * 1024
	}
	if c.Sanitize.Suffix == "" {
		c.Sanitize.Suffix = ".sanitized"
	}
	if c.Render == nil {
		c.Render = &RenderConfig{}
	}
	if c.Render.Title == "" {
		c.Render.Title = "Legends Reader"
	}
}

// LoadConfig reads an HCL configuration file and fills in defaults.
// A missing file is reported with an error wrapping fs.ErrNotExist.
func LoadConfig(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(path, src)
}

// ParseConfig decodes HCL source. The filename is used in diagnostics and
// must end in .hcl.
func ParseConfig(filename string, src []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", filename, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigOrDefault loads path, returning defaults when the file does not
// exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}
