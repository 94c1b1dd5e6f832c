// Package remote resolves repository references such as owner/repo@ref
// and clones them for analysis.
package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents a remote repository to analyze.
type Source struct {
	URL      string // normalized git URL
	Ref      string // branch, tag, or SHA (empty = default branch)
	CloneDir string // temp directory after clone
}

// Parse detects if a path is a remote reference.
// Returns nil if path exists on filesystem (local path takes precedence).
func Parse(path string) (*Source, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	// SSH URLs carry an @ before the host, so only a trailing @ref counts.
	ref := ""
	if idx := strings.LastIndex(path, "@"); idx != -1 && !strings.Contains(path[idx:], ":") {
		ref = path[idx+1:]
		path = path[:idx]
	}

	switch {
	case strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "http://"),
		strings.HasPrefix(path, "ssh://"), strings.HasPrefix(path, "git@"):
		return &Source{URL: path, Ref: ref}, nil
	case isHostPath(path):
		return &Source{URL: "https://" + path, Ref: ref}, nil
	case isGitHubShorthand(path):
		return &Source{URL: "https://github.com/" + path, Ref: ref}, nil
	}
	return nil, nil
}

// isHostPath reports host/owner/repo paths such as github.com/golang/go.
func isHostPath(path string) bool {
	parts := strings.Split(path, "/")
	host := parts[0]
	return len(parts) >= 3 && strings.Contains(host, ".") && !strings.HasPrefix(host, ".") &&
		parts[1] != "" && parts[2] != ""
}

// isGitHubShorthand returns true if path matches owner/repo pattern.
func isGitHubShorthand(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx == -1 {
		return false
	}
	if strings.Count(path, "/") != 1 {
		return false
	}
	// No dots before the slash (would indicate a domain)
	if strings.Contains(path[:slashIdx], ".") {
		return false
	}
	return slashIdx > 0 && slashIdx < len(path)-1
}

// Clone clones the repository into a temporary directory and checks out
// Ref. A shallow clone fetches only the tip of the ref. Clone progress is
// written to progress, which may be nil.
func (s *Source) Clone(ctx context.Context, progress io.Writer, shallow bool) error {
	dir, err := os.MkdirTemp("", "codestat-clone-*")
	if err != nil {
		return fmt.Errorf("create clone dir: %w", err)
	}
	s.CloneDir = dir

	depth := 0
	if shallow {
		depth = 1
	}

	if s.Ref == "" {
		_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:      s.URL,
			Depth:    depth,
			Progress: progress,
		})
		return s.cloneErr(err)
	}

	// A branch or tag can be cloned directly; anything else needs the full
	// history to resolve.
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(s.Ref),
		plumbing.NewTagReferenceName(s.Ref),
	} {
		_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:           s.URL,
			ReferenceName: name,
			SingleBranch:  true,
			Depth:         depth,
			Progress:      progress,
		})
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return s.cloneErr(err)
		}
		if err := resetDir(dir); err != nil {
			return s.cloneErr(err)
		}
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      s.URL,
		Progress: progress,
	})
	if err != nil {
		return s.cloneErr(err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(s.Ref))
	if err != nil {
		return s.cloneErr(fmt.Errorf("resolve %s: %w", s.Ref, err))
	}
	wt, err := repo.Worktree()
	if err != nil {
		return s.cloneErr(err)
	}
	return s.cloneErr(wt.Checkout(&git.CheckoutOptions{Hash: *hash}))
}

func (s *Source) cloneErr(err error) error {
	if err == nil {
		return nil
	}
	s.Cleanup()
	return fmt.Errorf("clone %s: %w", s.URL, err)
}

// Cleanup removes the clone directory.
func (s *Source) Cleanup() {
	if s.CloneDir != "" {
		os.RemoveAll(s.CloneDir)
		s.CloneDir = ""
	}
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
