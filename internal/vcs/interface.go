// Package vcs provides the git access used to stamp results with a commit
// and to analyze a project as of a revision.
package vcs

import "github.com/go-git/go-git/v5/plumbing"

// Repository provides access to git repository operations.
type Repository interface {
	// Head returns a reference to the HEAD commit.
	Head() (Reference, error)
	// Resolve returns the commit hash rev names.
	Resolve(rev string) (plumbing.Hash, error)
	// TreeAt returns the tree of the commit rev resolves to.
	TreeAt(rev string) (Tree, error)
	// IsDirty reports uncommitted changes to tracked files.
	IsDirty() (bool, error)
	// RepoPath returns the root path of the working tree.
	RepoPath() string
}

// Reference represents a git reference (branch, tag, HEAD).
type Reference interface {
	Hash() plumbing.Hash
}

// TreeEntry represents a file in a git tree.
type TreeEntry struct {
	Path string
	Size int64
}

// Tree represents a git tree object.
type Tree interface {
	// Entries returns all files in the tree (recursively).
	Entries() ([]TreeEntry, error)
	// File returns the content of the file at path.
	File(path string) ([]byte, error)
}

// Opener opens git repositories.
type Opener interface {
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}
