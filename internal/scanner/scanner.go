// Package scanner finds the source files to analyze, honoring config
// excludes and .gitignore files.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/panbanda/codestat/internal/vcs"
	"github.com/panbanda/codestat/pkg/config"
	"github.com/panbanda/codestat/pkg/lang"
)

// Scanner finds source files in a directory.
type Scanner struct {
	config  *config.Config
	matcher gitignore.Matcher
	// prefix is the scan root relative to the repository root, as path
	// parts; .gitignore patterns are matched against prefix + relative path.
	prefix []string
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot finds the root of the git repository by looking for .git.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns parses config patterns as gitignore syntax and adds
// every .gitignore of the enclosing repository when enabled. absRoot must
// be absolute.
func (s *Scanner) loadExcludePatterns(absRoot string) {
	s.matcher = nil
	s.prefix = nil
	var patterns []gitignore.Pattern

	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(absRoot); gitRoot != "" {
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
			if rel, err := filepath.Rel(gitRoot, absRoot); err == nil && rel != "." {
				s.prefix = splitPath(rel)
			}
		}
	}

	if len(patterns) > 0 {
		s.matcher = gitignore.NewMatcher(patterns)
	}
}

func splitPath(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}

// isExcluded checks a path relative to the scan root against the config
// excludes and the gitignore matcher.
func (s *Scanner) isExcluded(relPath string, isDir bool) bool {
	check := relPath
	if isDir {
		check += string(filepath.Separator)
	}
	if s.config.ShouldExclude(check) {
		return true
	}
	if s.matcher == nil {
		return false
	}
	parts := append(append([]string{}, s.prefix...), splitPath(relPath)...)
	return s.matcher.Match(parts, isDir)
}

// ScanDir recursively scans a directory for files of a known language.
// Symlinks that resolve outside the root are skipped. Paths are returned
// in lexical order.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	files := make([]string, 0, 256)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		relPath, _ := filepath.Rel(root, path)
		if relPath == "." {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
		}

		if d.IsDir() {
			if s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) {
			return nil
		}
		if _, ok := lang.ForPath(path); ok {
			files = append(files, path)
		}
		return nil
	})

	return files, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// ScanFile checks if a single file should be analyzed.
func (s *Scanner) ScanFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if s.config.ShouldExclude(path) {
		return false, nil
	}
	_, ok := lang.ForPath(path)
	return ok, nil
}

// ScanPaths scans every directory and checks every file in paths. The
// result is sorted and free of duplicates.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			files, err := s.ScanDir(p)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
			continue
		}
		if ok, err := s.ScanFile(p); err != nil {
			return nil, err
		} else if ok {
			add(p)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ScanTree lists the files of a git tree that would be analyzed. Config
// excludes apply; .gitignore does not, since ignored files are not
// committed.
func (s *Scanner) ScanTree(tree vcs.Tree) ([]string, error) {
	entries, err := tree.Entries()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		p := filepath.FromSlash(e.Path)
		if s.isExcludedPath(p) {
			continue
		}
		if _, ok := lang.ForPath(p); ok {
			out = append(out, e.Path)
		}
	}
	sort.Strings(out)
	return out, nil
}

// isExcludedPath applies config excludes to a file and each of its parent
// directories.
func (s *Scanner) isExcludedPath(p string) bool {
	if s.config.ShouldExclude(p) {
		return true
	}
	for dir := filepath.Dir(p); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if s.config.ShouldExclude(dir + string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// GroupByLanguage groups files by their language name.
func GroupByLanguage(files []string) map[string][]string {
	groups := make(map[string][]string)
	for _, f := range files {
		if l, ok := lang.ForPath(f); ok {
			groups[l.Name] = append(groups[l.Name], f)
		}
	}
	return groups
}
