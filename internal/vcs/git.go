package vcs

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitOpener opens git repositories using go-git.
type GitOpener struct{}

// NewGitOpener creates a new GitOpener.
func NewGitOpener() *GitOpener {
	return &GitOpener{}
}

// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
func (o *GitOpener) PlainOpenWithDetect(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, err
	}
	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &gitRepository{repo: repo, path: root}, nil
}

// gitRepository wraps go-git Repository.
type gitRepository struct {
	repo *git.Repository
	path string
}

func (r *gitRepository) Head() (Reference, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func (r *gitRepository) Resolve(rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", rev, err)
	}
	return *hash, nil
}

func (r *gitRepository) TreeAt(rev string) (Tree, error) {
	hash, err := r.Resolve(rev)
	if err != nil {
		return nil, err
	}
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	return &gitTree{tree: tree}, nil
}

// IsDirty returns true if there are uncommitted changes in the working directory.
// Untracked files are not considered dirty.
func (r *gitRepository) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	for _, s := range status {
		if s.Staging == git.Untracked && s.Worktree == git.Untracked {
			continue
		}
		if s.Staging != git.Unmodified || s.Worktree != git.Unmodified {
			return true, nil
		}
	}
	return false, nil
}

func (r *gitRepository) RepoPath() string {
	return r.path
}

// gitTree wraps go-git Tree.
type gitTree struct {
	tree *object.Tree
}

func (t *gitTree) Entries() ([]TreeEntry, error) {
	var entries []TreeEntry
	err := t.tree.Files().ForEach(func(f *object.File) error {
		entries = append(entries, TreeEntry{Path: f.Name, Size: f.Size})
		return nil
	})
	return entries, err
}

func (t *gitTree) File(path string) ([]byte, error) {
	f, err := t.tree.File(filepath.ToSlash(path))
	if err != nil {
		return nil, err
	}
	content, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(content), nil
}

var defaultOpener Opener = NewGitOpener()

// DefaultOpener returns the go-git opener.
func DefaultOpener() Opener {
	return defaultOpener
}

// Describe returns the HEAD commit of the repository containing path, with
// a "-dirty" suffix when tracked files have uncommitted changes. It returns
// "" when path is not inside a repository or HEAD is unborn.
func Describe(path string) string {
	return DescribeWith(DefaultOpener(), path)
}

// DescribeWith is Describe using opener.
func DescribeWith(opener Opener, path string) string {
	repo, err := opener.PlainOpenWithDetect(path)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	commit := head.Hash().String()
	if dirty, err := repo.IsDirty(); err == nil && dirty {
		commit += "-dirty"
	}
	return commit
}
