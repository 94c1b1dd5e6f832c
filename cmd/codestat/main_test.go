package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/codestat/internal/report"
	"github.com/panbanda/codestat/pkg/config"
	"github.com/panbanda/codestat/pkg/models"
)

type run struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func runApp(t *testing.T, args ...string) (*run, error) {
	t.Helper()
	r := &run{}
	app := newApp()
	app.Writer = &r.stdout
	app.ErrWriter = &r.stderr
	err := app.Run(append([]string{"codestat", "--no-color"}, args...))
	return r, err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n\n// main runs.\nfunc main() {\n\tprintln(\"hi\")\n}\n")
	writeFile(t, dir, "lib/util.py", "def f(x):\n    return x\n")
	return dir
}

func readStats(t *testing.T, path string) models.AggregatedStats {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var s models.AggregatedStats
	require.NoError(t, json.Unmarshal(data, &s))
	return s
}

func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"no args defaults to current dir", []string{}, []string{"."}},
		{"single path", []string{"/foo/bar"}, []string{"/foo/bar"}},
		{"multiple paths", []string{"/foo", "/bar"}, []string{"/foo", "/bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			app := &cli.App{
				Action: func(c *cli.Context) error {
					got = getPaths(c)
					return nil
				},
			}
			require.NoError(t, app.Run(append([]string{"test"}, tt.args...)))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAnalyze(t *testing.T) {
	dir := project(t)
	out := filepath.Join(t.TempDir(), "out.json")
	saved := filepath.Join(t.TempDir(), "saved.json")

	_, err := runApp(t, "analyze", "-q", "--no-cache", "-f", "json", "-o", out, "--save", saved, dir)
	require.NoError(t, err)

	stats := readStats(t, out)
	assert.Equal(t, 2, stats.Basic.TotalFiles)
	assert.Equal(t, 8, stats.Basic.TotalLines)
	assert.Equal(t, models.DepthComplete, stats.Metadata.Depth)
	assert.Equal(t, []string{"Go", "Python"}, stats.Metadata.Languages)
	assert.Equal(t, 2, stats.Complexity.FunctionCount)
	assert.Equal(t, "dev", stats.Metadata.ToolVersion)

	fromDisk, err := report.Load(saved)
	require.NoError(t, err)
	assert.Equal(t, stats.Basic, fromDisk.Basic)
}

func TestAnalyzeDepthFlag(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")

	_, err := runApp(t, "analyze", "-q", "--no-cache", "-d", "basic", "-f", "json", "-o", out, project(t))
	require.NoError(t, err)

	stats := readStats(t, out)
	assert.Equal(t, models.DepthBasic, stats.Metadata.Depth)
	assert.Equal(t, models.RatioStats{}, stats.Ratios)
	assert.Zero(t, stats.Complexity.FunctionCount)
}

func TestAnalyzeText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")

	_, err := runApp(t, "analyze", "-q", "--no-cache", "-o", out, project(t))
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Code Statistics")
	assert.Contains(t, string(data), "Languages")
	assert.Contains(t, string(data), "Most Complex Functions")
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad depth", []string{"analyze", "-q", "--no-cache", "-d", "deep", project(t)}, "unknown analysis depth"},
		{"bad format", []string{"analyze", "-q", "-f", "xml", project(t)}, "unknown output format"},
		{"ref with two paths", []string{"analyze", "-q", "--ref", "HEAD", "a", "b"}, "--ref takes a single path"},
		{"missing config", []string{"--config", "/does/not/exist.toml", "analyze"}, "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAnalyzeNoFiles(t *testing.T) {
	r, err := runApp(t, "analyze", "-q", "--no-cache", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, r.stderr.String(), "No source files found")
}

func TestAnalyzeUsesConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "codestat.yaml")
	writeFile(t, filepath.Dir(cfgPath), "codestat.yaml", "analysis:\n  depth: standard\noutput:\n  format: json\n")
	out := filepath.Join(t.TempDir(), "out.json")

	_, err := runApp(t, "--config", cfgPath, "analyze", "-q", "--no-cache", "-o", out, project(t))
	require.NoError(t, err)

	stats := readStats(t, out)
	assert.Equal(t, models.DepthStandard, stats.Metadata.Depth)
	assert.NotZero(t, stats.Ratios.CodeRatio)
	assert.Zero(t, stats.Complexity.FunctionCount)
}

func TestAnalyzeRef(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, dir, "sub/a.py", "x = 1\n")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	// Uncommitted edits are not seen at the ref.
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n\nfunc extra() {}\n")
	writeFile(t, dir, "new.go", "package main\n")

	out := filepath.Join(t.TempDir(), "out.json")
	_, err = runApp(t, "analyze", "-q", "--no-cache", "--ref", "HEAD", "-f", "json", "-o", out, dir)
	require.NoError(t, err)

	stats := readStats(t, out)
	assert.Equal(t, 2, stats.Basic.TotalFiles)
	assert.Equal(t, 4, stats.Basic.TotalLines)
	assert.Equal(t, hash.String(), stats.Metadata.Commit)

	_, err = runApp(t, "analyze", "-q", "--no-cache", "--ref", "HEAD", "-f", "json", "-o", out, filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Equal(t, 1, readStats(t, out).Basic.TotalFiles)
}

func TestSummary(t *testing.T) {
	out := filepath.Join(t.TempDir(), "summary.md")

	_, err := runApp(t, "summary", "-q", "--no-cache", "-f", "markdown", "-o", out, project(t))
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- **Files:** 2")
	assert.Contains(t, string(data), "- **Languages:** 2")
}

func TestMerge(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.json")
	b := filepath.Join(tmp, "b.json")
	merged := filepath.Join(tmp, "merged.json")
	out := filepath.Join(tmp, "out.json")

	dirA, dirB := t.TempDir(), t.TempDir()
	writeFile(t, dirA, "a.go", "package a\n\nfunc A() {}\n")
	writeFile(t, dirB, "b.go", "package b\n\nfunc B() {}\n")

	_, err := runApp(t, "analyze", "-q", "--no-cache", "-o", filepath.Join(tmp, "a.txt"), "--save", a, dirA)
	require.NoError(t, err)
	_, err = runApp(t, "analyze", "-q", "--no-cache", "-o", filepath.Join(tmp, "b.txt"), "--save", b, dirB)
	require.NoError(t, err)

	_, err = runApp(t, "merge", "-f", "json", "-o", out, "--save", merged, a, b)
	require.NoError(t, err)

	stats := readStats(t, out)
	assert.Equal(t, 2, stats.Basic.TotalFiles)
	assert.Equal(t, 2, stats.Complexity.FunctionCount)

	fromDisk, err := report.Load(merged)
	require.NoError(t, err)
	assert.Equal(t, stats.Basic, fromDisk.Basic)

	_, err = runApp(t, "merge")
	require.Error(t, err)
}

func TestReportValidateAndRender(t *testing.T) {
	tmp := t.TempDir()
	saved := filepath.Join(tmp, "saved.json")
	_, err := runApp(t, "analyze", "-q", "--no-cache", "-o", filepath.Join(tmp, "out.txt"), "--save", saved, project(t))
	require.NoError(t, err)

	r, err := runApp(t, "report", "validate", saved)
	require.NoError(t, err)
	assert.Contains(t, r.stdout.String(), "Validation passed")

	bad := filepath.Join(tmp, "bad.json")
	writeFile(t, tmp, "bad.json", `{"basic": {}}`)
	r, err = runApp(t, "report", "validate", saved, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s)")
	assert.Contains(t, r.stderr.String(), "Validation error")

	html := filepath.Join(tmp, "report.html")
	r, err = runApp(t, "report", "render", "-o", html, "--title", "Project X", saved)
	require.NoError(t, err)
	assert.Contains(t, r.stdout.String(), "Report rendered: "+html)

	data, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Project X</h1>")
}

func TestLanguages(t *testing.T) {
	out := filepath.Join(t.TempDir(), "langs.json")
	_, err := runApp(t, "languages", "-f", "json", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var infos []languageInfo
	require.NoError(t, json.Unmarshal(data, &infos))

	byName := map[string]languageInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	require.Contains(t, byName, "Go")
	assert.Contains(t, byName["Go"].Extensions, ".go")
	assert.True(t, byName["Go"].Structural)
	assert.Equal(t, "indent", byName["Python"].Family)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".codestat", "codestat.toml")

	r, err := runApp(t, "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, r.stdout.String(), "Created "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = runApp(t, "init", "-o", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runApp(t, "init", "-o", path, "--force")
	require.NoError(t, err)
}

func TestMCPManifest(t *testing.T) {
	r, err := runApp(t, "mcp", "manifest")
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(r.stdout.Bytes(), &m))
	assert.Equal(t, "io.github.panbanda/codestat", m["name"])
	assert.Equal(t, "0.0.0", m["version"])
}

func TestWithinDir(t *testing.T) {
	files := []string{"a.go", "sub/b.go", "sub/deep/c.go", "subway/d.go"}

	assert.Equal(t, files, withinDir(files, "/repo", "/repo"))
	assert.Equal(t, []string{"sub/b.go", "sub/deep/c.go"}, withinDir(files, "/repo", "/repo/sub"))
	assert.Equal(t, files, withinDir(files, "/repo", "/elsewhere"))
}
