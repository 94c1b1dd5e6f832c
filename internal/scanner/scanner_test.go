package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/codestat/internal/vcs"
	"github.com/panbanda/codestat/pkg/config"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":             "package main\n",
		"util/helper.py":      "# python\n",
		"internal/core.rs":    "fn main() {}\n",
		"web/app.min.js":      "x\n",
		"web/app.js":          "x\n",
		"vendor/dep/dep.go":   "package dep\n",
		"node_modules/a/a.js": "x\n",
		"notes.xyz":           "x\n",
		"go.sum":              "x\n",
	})

	got, err := NewScanner(nil).ScanDir(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"internal/core.rs", "main.go", "util/helper.py", "web/app.js"}, rel(t, root, got))
}

func TestScanDirHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":        "generated/\n*.gen.go\n/sub/skip.go\n",
		"main.go":           "package main\n",
		"types.gen.go":      "package main\n",
		"generated/api.go":  "package generated\n",
		"sub/keep.go":       "package sub\n",
		"sub/skip.go":       "package sub\n",
		"sub/deep/skip.go":  "package deep\n",
		"sub/.gitignore":    "local.py\n",
		"sub/local.py":      "x = 1\n",
		"sub/deep/local.py": "x = 1\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	got, err := NewScanner(nil).ScanDir(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "sub/deep/skip.go", "sub/keep.go"}, rel(t, root, got))

	// Scanning a subdirectory still resolves anchored patterns from the
	// repository root.
	sub := filepath.Join(root, "sub")
	got, err = NewScanner(nil).ScanDir(sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"deep/skip.go", "keep.go"}, rel(t, sub, got))

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	got, err = NewScanner(cfg).ScanDir(root)
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestScanDirSkipsEscapingSymlinks(t *testing.T) {
	outside := t.TempDir()
	writeTree(t, outside, map[string]string{"secret.go": "package secret\n"})
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.go": "package main\n"})
	if err := os.Symlink(filepath.Join(outside, "secret.go"), filepath.Join(root, "link.go")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := NewScanner(nil).ScanDir(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, rel(t, root, got))
}

func TestScanFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "package a\n", "b.txt": "x\n"})
	s := NewScanner(nil)

	ok, err := s.ScanFile(filepath.Join(root, "a.go"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ScanFile(filepath.Join(root, "b.txt"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.ScanFile(root)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.ScanFile(filepath.Join(root, "missing.go"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanPaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/x.go": "package a\n", "b/y.py": "y = 1\n"})

	got, err := NewScanner(nil).ScanPaths([]string{
		filepath.Join(root, "b"),
		filepath.Join(root, "a", "x.go"),
		filepath.Join(root, "a"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x.go", "b/y.py"}, rel(t, root, got))

	_, err = NewScanner(nil).ScanPaths([]string{filepath.Join(root, "nope")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type fakeTree []vcs.TreeEntry

func (f fakeTree) Entries() ([]vcs.TreeEntry, error) { return f, nil }
func (f fakeTree) File(string) ([]byte, error)       { return nil, os.ErrNotExist }

func TestScanTree(t *testing.T) {
	tree := fakeTree{
		{Path: "cmd/main.go"},
		{Path: "vendor/x/x.go"},
		{Path: "web/app.min.js"},
		{Path: "docs/guide.md"},
		{Path: "LICENSE"},
		{Path: "app.py"},
	}
	got, err := NewScanner(nil).ScanTree(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py", "cmd/main.go", "docs/guide.md"}, got)
}

func TestGroupByLanguage(t *testing.T) {
	groups := GroupByLanguage([]string{"a.go", "b.go", "c.py", "d.unknown"})
	assert.Equal(t, map[string][]string{"Go": {"a.go", "b.go"}, "Python": {"c.py"}}, groups)
}
