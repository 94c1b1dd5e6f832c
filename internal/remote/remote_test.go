package remote

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocalPath(t *testing.T) {
	src, err := Parse(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, src)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantURL string
		wantRef string
	}{
		{"simple owner/repo", "facebook/react", "https://github.com/facebook/react", ""},
		{"with ref suffix", "facebook/react@v18.2.0", "https://github.com/facebook/react", "v18.2.0"},
		{"with branch ref", "owner/repo@feature-branch", "https://github.com/owner/repo", "feature-branch"},
		{"github.com without scheme", "github.com/golang/go", "https://github.com/golang/go", ""},
		{"https URL", "https://github.com/kubernetes/kubernetes", "https://github.com/kubernetes/kubernetes", ""},
		{"gitlab URL", "https://gitlab.com/group/project", "https://gitlab.com/group/project", ""},
		{"SSH URL", "git@github.com:owner/repo.git", "git@github.com:owner/repo.git", ""},
		{"URL with ref", "github.com/golang/go@go1.21.0", "https://github.com/golang/go", "go1.21.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Parse(tt.input)
			require.NoError(t, err)
			require.NotNil(t, src)
			assert.Equal(t, tt.wantURL, src.URL)
			assert.Equal(t, tt.wantRef, src.Ref)
		})
	}
}

func TestParseNotRemote(t *testing.T) {
	for _, input := range []string{"missing", "./missing/dir", "a/b/c", "/"} {
		src, err := Parse(input)
		require.NoError(t, err)
		assert.Nil(t, src, input)
	}
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	clone := filepath.Join(dir, "clone")
	require.NoError(t, os.Mkdir(clone, 0o755))

	src := &Source{CloneDir: clone}
	src.Cleanup()
	assert.Empty(t, src.CloneDir)
	_, err := os.Stat(clone)
	assert.True(t, os.IsNotExist(err))

	src.Cleanup()
}

func TestCloneShallow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	src := &Source{URL: "https://github.com/octocat/Hello-World", Ref: "master"}
	require.NoError(t, src.Clone(context.Background(), io.Discard, true))
	defer src.Cleanup()

	repo, err := git.PlainOpen(src.CloneDir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, "master", head.Name().Short())
}
