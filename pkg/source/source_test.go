package source

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/codestat/internal/vcs"
)

var (
	_ ContentSource = (*FilesystemSource)(nil)
	_ ContentSource = (*TreeSource)(nil)
	_ Sizer         = (*FilesystemSource)(nil)
	_ Sizer         = (*TreeSource)(nil)
)

func TestFilesystemSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))

	content, err := NewFilesystem().Read(path)
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(content))

	_, err = NewFilesystem().Read(filepath.Join(dir, "missing.go"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type fakeTree map[string]string

func (f fakeTree) Entries() ([]vcs.TreeEntry, error) {
	var out []vcs.TreeEntry
	for p, s := range f {
		out = append(out, vcs.TreeEntry{Path: p, Size: int64(len(s))})
	}
	return out, nil
}

func (f fakeTree) File(path string) ([]byte, error) {
	if s, ok := f[path]; ok {
		return []byte(s), nil
	}
	return nil, os.ErrNotExist
}

func TestTreeSourceConcurrentReads(t *testing.T) {
	src := NewTree(fakeTree{"main.go": "package main\n"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			content, err := src.Read("main.go")
			assert.NoError(t, err)
			assert.Equal(t, "package main\n", string(content))
		}()
	}
	wg.Wait()

	_, err := src.Read("other.go")
	assert.Error(t, err)
}

func TestSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))

	size, err := NewFilesystem().Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)

	tree := NewTree(fakeTree{"pkg/main.go": "package main\n"})
	size, err = tree.Size("pkg/main.go")
	require.NoError(t, err)
	assert.Equal(t, int64(13), size)

	_, err = tree.Size("other.go")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
