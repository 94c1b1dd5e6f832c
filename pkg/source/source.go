// Package source abstracts where file content comes from: the working tree
// or a git revision.
package source

import (
	"fmt"
	"os"
	"sync"

	"github.com/panbanda/codestat/internal/vcs"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// Sizer is implemented by sources that can report a file's size without
// reading it.
type Sizer interface {
	Size(path string) (int64, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Size implements Sizer.
func (f *FilesystemSource) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// TreeSource reads files from a git tree by repository-relative path.
// It is safe for concurrent use by multiple goroutines.
type TreeSource struct {
	tree  vcs.Tree
	mu    sync.Mutex
	sizes map[string]int64
}

// NewTree creates a source that reads from a git tree.
func NewTree(tree vcs.Tree) *TreeSource {
	return &TreeSource{tree: tree}
}

// Read implements ContentSource.
func (t *TreeSource) Read(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.File(path)
}

// Size implements Sizer from the tree listing, loaded on first use.
func (t *TreeSource) Size(path string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sizes == nil {
		entries, err := t.tree.Entries()
		if err != nil {
			return 0, err
		}
		t.sizes = make(map[string]int64, len(entries))
		for _, e := range entries {
			t.sizes[e.Path] = e.Size
		}
	}
	size, ok := t.sizes[path]
	if !ok {
		return 0, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return size, nil
}
