// Package config loads codestat configuration from TOML, YAML or JSON.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml"

	"github.com/panbanda/codestat/pkg/analyzer/complexity"
	"github.com/panbanda/codestat/pkg/analyzer/ratio"
	"github.com/panbanda/codestat/pkg/models"
)

// Config holds all configuration options for codestat.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `toml:"analysis"`

	// Limits past which a function gets a maintainability concern
	Thresholds complexity.Thresholds `toml:"thresholds"`

	// Targets for the ratio quality scores
	Quality ratio.QualityThresholds `toml:"quality"`

	// Weights of the overall quality score
	Weights ratio.Weights `toml:"weights"`

	// File exclusion patterns
	Exclude ExcludeConfig `toml:"exclude"`

	// Cache settings
	Cache CacheConfig `toml:"cache"`

	// Output settings
	Output OutputConfig `toml:"output"`
}

// AnalysisConfig controls how much analysis runs.
type AnalysisConfig struct {
	Depth       string `toml:"depth"`         // basic, standard, advanced, complete
	Workers     int    `toml:"workers"`       // 0 = 2x NumCPU
	MaxFileSize int64  `toml:"max_file_size"` // bytes, 0 = no limit
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `toml:"patterns"`
	Extensions []string `toml:"extensions"`
	Dirs       []string `toml:"dirs"`
	Gitignore  bool     `toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	TTL     int    `toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `toml:"format"` // text, markdown, json, yaml, toon
	Color   bool   `toml:"color"`
	Verbose bool   `toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Depth:       models.DepthComplete.String(),
			Workers:     0,
			MaxFileSize: 1 << 20,
		},
		Thresholds: complexity.DefaultThresholds(),
		Quality:    ratio.DefaultQualityThresholds(),
		Weights:    ratio.DefaultWeights(),
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.min.css",
			},
			Extensions: []string{
				".lock",
				".sum",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".codestat",
				"dist",
				"build",
				"target",
				"__pycache__",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".codestat/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file over the defaults and validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	// The toml tags double as koanf keys for every format.
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "toml"}); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", models.ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// configNames are the file names LoadOrDefault searches for.
var configNames = []string{
	"codestat.toml",
	"codestat.yaml",
	"codestat.yml",
	"codestat.json",
	".codestat.toml",
	".codestat.yaml",
	".codestat.yml",
	".codestat.json",
}

// Find returns the first config file found in dir or dir/.codestat.
func Find(dir string) (string, bool) {
	for _, d := range []string{dir, filepath.Join(dir, ".codestat")} {
		for _, name := range configNames {
			path := filepath.Join(d, name)
			if _, err := os.Stat(path); err == nil {
				return path, true
			}
		}
	}
	return "", false
}

// LoadOrDefault loads the config found in the working directory, or
// returns defaults when there is none. A config that exists but does not
// load is an error.
func LoadOrDefault() (*Config, error) {
	path, ok := Find(".")
	if !ok {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := c.Depth(); err != nil {
		return err
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("%w: analysis.workers must not be negative", models.ErrInvalidConfig)
	}
	if c.Analysis.MaxFileSize < 0 {
		return fmt.Errorf("%w: analysis.max_file_size must not be negative", models.ErrInvalidConfig)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if err := c.Quality.Validate(); err != nil {
		return err
	}
	return c.Weights.Validate()
}

// Depth returns the configured analysis depth.
func (c *Config) Depth() (models.AnalysisDepth, error) {
	return models.ParseDepth(c.Analysis.Depth)
}

// TOML renders c as a TOML document.
func (c *Config) TOML() ([]byte, error) {
	data, err := gotoml.Marshal(*c)
	if err != nil {
		return nil, fmt.Errorf("%w: encode config: %v", models.ErrSerialization, err)
	}
	return data, nil
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	sep := string(filepath.Separator)
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, sep+dir+sep) || strings.HasPrefix(path, dir+sep) {
			return true
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == strings.ToLower(excludeExt) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
