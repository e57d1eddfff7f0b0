package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/spfmt/internal/expand"
	"github.com/gnolang/spfmt/internal/printer"
)

// DefaultConfigFile is the name `spfmt init` writes and the CLI looks for.
const DefaultConfigFile = ".spfmt.yaml"

// Config is the on-disk configuration of a run.
type Config struct {
	Indent         int      `yaml:"indent"`
	Expand         bool     `yaml:"expand"`
	InsertPrefixes bool     `yaml:"insert_prefixes"`
	Format         bool     `yaml:"format"`
	PrefixFiles    []string `yaml:"prefix_files,omitempty"`
	MaxIterations  int      `yaml:"max_iterations"`
	Extensions     []string `yaml:"extensions"`
	CacheDir       string   `yaml:"cache_dir,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Indent:         printer.DefaultIndent,
		Expand:         true,
		InsertPrefixes: true,
		Format:         true,
		MaxIterations:  expand.DefaultMaxIterations,
		Extensions:     []string{".rq", ".sparql", ".ru"},
	}
}

// LoadConfig reads a YAML configuration. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := config.validate(); err != nil {
		return config, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return config, nil
}

// WriteConfig stores config as YAML at path.
func WriteConfig(path string, config Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling configuration: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Indent)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	return nil
}
