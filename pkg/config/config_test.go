package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/codestat/pkg/analyzer/complexity"
	"github.com/panbanda/codestat/pkg/analyzer/ratio"
	"github.com/panbanda/codestat/pkg/models"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	depth, err := cfg.Depth()
	require.NoError(t, err)
	assert.Equal(t, models.DepthComplete, depth)
	assert.Equal(t, complexity.DefaultThresholds(), cfg.Thresholds)
	assert.Equal(t, ratio.DefaultQualityThresholds(), cfg.Quality)
	assert.Equal(t, ratio.DefaultWeights(), cfg.Weights)
	assert.True(t, cfg.Exclude.Gitignore)
	assert.Contains(t, cfg.Exclude.Dirs, "node_modules")
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 24, cfg.Cache.TTL)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"codestat.toml", `
[analysis]
depth = "advanced"
workers = 3

[thresholds]
max_cyclomatic = 15

[weights]
documentation = 0.25
maintainability = 0.25
readability = 0.25
consistency = 0.25
`},
		{"codestat.yaml", `
analysis:
  depth: advanced
  workers: 3
thresholds:
  max_cyclomatic: 15
weights:
  documentation: 0.25
  maintainability: 0.25
  readability: 0.25
  consistency: 0.25
`},
		{"codestat.json", `{
  "analysis": {"depth": "advanced", "workers": 3},
  "thresholds": {"max_cyclomatic": 15},
  "weights": {"documentation": 0.25, "maintainability": 0.25, "readability": 0.25, "consistency": 0.25}
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, dir, tt.name, tt.content))
			require.NoError(t, err)

			depth, err := cfg.Depth()
			require.NoError(t, err)
			assert.Equal(t, models.DepthAdvanced, depth)
			assert.Equal(t, 3, cfg.Analysis.Workers)
			assert.Equal(t, 15, cfg.Thresholds.MaxCyclomatic)
			// Unset keys keep their defaults.
			assert.Equal(t, 4, cfg.Thresholds.MaxNesting)
			assert.Equal(t, 0.15, cfg.Quality.GoodCommentRatio)
			assert.Equal(t, 0.25, cfg.Weights.Consistency)
			assert.Equal(t, "text", cfg.Output.Format)
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"depth", "[analysis]\ndepth = \"deep\"\n"},
		{"weights", "[weights]\ndocumentation = 0.9\n"},
		{"workers", "[analysis]\nworkers = -1\n"},
		{"thresholds", "[thresholds]\nmax_nesting = 0\n"},
		{"quality", "[quality]\nmax_blank_ratio = 1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, dir, tt.name+".toml", tt.content))
			assert.ErrorIs(t, err, models.ErrInvalidConfig)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	_, ok := Find(dir)
	assert.False(t, ok)

	want := writeConfig(t, dir, filepath.Join(".codestat", "codestat.yaml"), "analysis:\n  workers: 1\n")
	got, ok := Find(dir)
	require.True(t, ok)
	assert.Equal(t, want, got)

	want = writeConfig(t, dir, "codestat.toml", "")
	got, ok = Find(dir)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	writeConfig(t, dir, ".codestat.toml", "[output]\nformat = \"json\"\n")
	cfg, err = LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestTOMLRoundTrip(t *testing.T) {
	data, err := DefaultConfig().TOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_cyclomatic")

	path := writeConfig(t, t.TempDir(), "codestat.toml", string(data))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()
	sep := string(filepath.Separator)
	tests := []struct {
		path string
		want bool
	}{
		{"main.go", false},
		{"vendor" + sep + "lib.go", true},
		{"src" + sep + "node_modules" + sep + "x.js", true},
		{"app.min.js", true},
		{"Cargo.LOCK", true},
		{"src" + sep + "builder.go", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ShouldExclude(tt.path))
		})
	}
}
