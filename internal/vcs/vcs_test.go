package vcs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()
	_, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)
	return repoPath
}

func commitFiles(t *testing.T, repoPath string, files map[string]string, msg string) {
	t.Helper()
	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)
	w, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		full := filepath.Join(repoPath, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
		_, err := w.Add(name)
		require.NoError(t, err)
	}
	_, err = w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestPlainOpenWithDetect(t *testing.T) {
	repoPath := initTestRepo(t)
	commitFiles(t, repoPath, map[string]string{"pkg/a.go": "package pkg\n"}, "initial")

	repo, err := NewGitOpener().PlainOpenWithDetect(filepath.Join(repoPath, "pkg"))
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(repoPath)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(repo.RepoPath())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = NewGitOpener().PlainOpenWithDetect(t.TempDir())
	assert.Error(t, err)
}

func TestTreeAt(t *testing.T) {
	repoPath := initTestRepo(t)
	commitFiles(t, repoPath, map[string]string{"main.go": "package main\n", "lib/util.py": "x = 1\n"}, "initial")
	commitFiles(t, repoPath, map[string]string{"main.go": "package main\n\nfunc main() {}\n"}, "second")

	repo, err := NewGitOpener().PlainOpenWithDetect(repoPath)
	require.NoError(t, err)

	tree, err := repo.TreeAt("HEAD~1")
	require.NoError(t, err)

	entries, err := tree.Entries()
	require.NoError(t, err)
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	sort.Strings(paths)
	assert.Equal(t, []string{"lib/util.py", "main.go"}, paths)

	content, err := tree.File("main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(content))

	head, err := repo.TreeAt("HEAD")
	require.NoError(t, err)
	content, err = head.File("main.go")
	require.NoError(t, err)
	assert.Contains(t, string(content), "func main")

	_, err = head.File("missing.go")
	assert.Error(t, err)
	_, err = repo.TreeAt("no-such-branch")
	assert.Error(t, err)

	headRef, err := repo.Head()
	require.NoError(t, err)
	resolved, err := repo.Resolve("HEAD")
	require.NoError(t, err)
	assert.Equal(t, headRef.Hash(), resolved)
}

func TestDescribe(t *testing.T) {
	repoPath := initTestRepo(t)
	assert.Empty(t, Describe(repoPath), "unborn HEAD")
	assert.Empty(t, Describe(t.TempDir()), "not a repository")

	commitFiles(t, repoPath, map[string]string{"a.txt": "one\n"}, "initial")
	repo, err := NewGitOpener().PlainOpenWithDetect(repoPath)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, head.Hash().String(), Describe(repoPath))

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "untracked.txt"), []byte("x"), 0o644))
	assert.Equal(t, head.Hash().String(), Describe(repoPath), "untracked files are clean")

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "a.txt"), []byte("two\n"), 0o644))
	assert.Equal(t, head.Hash().String()+"-dirty", Describe(repoPath))
}
