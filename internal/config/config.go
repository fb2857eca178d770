// Package config loads bashcst settings from .bashcst.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/aledsdavies/bashcst/pkgs/treefmt"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = ".bashcst.yaml"

// Config holds settings shared by the CLI commands. Flags override it.
type Config struct {
	// Format is the tree dump encoding used by "parse".
	Format string `yaml:"format"`
	// Trivia keeps spaces, newlines and comments in tree dumps.
	Trivia bool `yaml:"trivia"`
	// Validate checks tree dumps against the JSON Schema.
	Validate bool `yaml:"validate"`
	// Oracle cross-checks scripts with tree-sitter-bash in "check".
	Oracle bool `yaml:"oracle"`
	// Digest prints BLAKE2b digests in "check".
	Digest bool `yaml:"digest"`
	// Diff prints a unified diff when regeneration differs.
	Diff bool `yaml:"diff"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Format: treefmt.JSON.String(),
		Diff:   true,
	}
}

// Load reads the YAML file at path over the defaults. An empty path means
// DefaultFile, which may be absent; an explicit path must exist. Unknown
// keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Check validates field values.
func (c *Config) Check() error {
	_, err := treefmt.ParseFormat(c.Format)
	return err
}

// TreeFormat returns the parsed Format field.
func (c *Config) TreeFormat() (treefmt.Format, error) {
	return treefmt.ParseFormat(c.Format)
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
