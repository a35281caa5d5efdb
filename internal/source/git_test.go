package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/postbuilder/postbuilder/internal/config"
)

func commitFile(t *testing.T, repoDir, name, content string) {
	t.Helper()
	repo, err := git.PlainOpen(repoDir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(repoDir, name), []byte(content), 0o644))
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func initContentRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, dir, "post.md", "---\ntitle: T\npubDate: \"2024-01-01\"\n---\nbody\n")
	return dir
}

func TestSync_ClonesFreshCheckout(t *testing.T) {
	upstream := initContentRepo(t)
	checkout := filepath.Join(t.TempDir(), "checkout")

	src := NewGitSource(config.GitSourceConfig{URL: upstream, Dir: checkout})
	dir, err := src.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, checkout, dir)

	data, err := os.ReadFile(filepath.Join(checkout, "post.md"))
	require.NoError(t, err)
	require.Contains(t, string(data), "title: T")
}

func TestSync_PullsExistingCheckout(t *testing.T) {
	upstream := initContentRepo(t)
	checkout := filepath.Join(t.TempDir(), "checkout")

	src := NewGitSource(config.GitSourceConfig{URL: upstream, Dir: checkout})
	_, err := src.Sync(context.Background())
	require.NoError(t, err)

	commitFile(t, upstream, "second.md", "---\ntitle: Second\npubDate: \"2024-02-01\"\n---\nbody\n")

	_, err = src.Sync(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(checkout, "second.md"))
	require.NoError(t, err)
}

func TestSync_UpToDateCheckout_IsNotAnError(t *testing.T) {
	upstream := initContentRepo(t)
	checkout := filepath.Join(t.TempDir(), "checkout")

	src := NewGitSource(config.GitSourceConfig{URL: upstream, Dir: checkout})
	_, err := src.Sync(context.Background())
	require.NoError(t, err)

	_, err = src.Sync(context.Background())
	require.NoError(t, err)
}
