// Package source fetches content trees that live outside the working
// directory. Currently the only source kind is a git repository.
package source

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/postbuilder/postbuilder/internal/config"
	apperrors "github.com/postbuilder/postbuilder/internal/errors"
	"github.com/postbuilder/postbuilder/internal/logfields"
)

// GitSource clones or updates a content repository ahead of loading.
type GitSource struct {
	url    string
	branch string
	dir    string
}

// NewGitSource constructs a GitSource from configuration.
func NewGitSource(cfg config.GitSourceConfig) *GitSource {
	return &GitSource{
		url:    cfg.URL,
		branch: cfg.Branch,
		dir:    cfg.Dir,
	}
}

// Sync ensures the checkout directory holds the current content and returns
// its path. An existing checkout is pulled; anything else is replaced by a
// fresh clone.
func (s *GitSource) Sync(ctx context.Context) (string, error) {
	if _, err := os.Stat(filepath.Join(s.dir, ".git")); err == nil {
		if err := s.pull(ctx); err != nil {
			return "", apperrors.GitSyncError(s.url, err)
		}
		return s.dir, nil
	}
	if err := s.clone(ctx); err != nil {
		return "", apperrors.GitSyncError(s.url, err)
	}
	return s.dir, nil
}

func (s *GitSource) clone(ctx context.Context) error {
	slog.Debug("cloning content repository", logfields.URL(s.url), logfields.Path(s.dir))
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.dir), 0o755); err != nil {
		return err
	}

	opts := &git.CloneOptions{URL: s.url}
	if s.branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + s.branch)
		opts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, s.dir, false, opts)
	if err != nil {
		return err
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("content repository cloned", logfields.URL(s.url), slog.String("commit", ref.Hash().String()[:8]))
	}
	return nil
}

func (s *GitSource) pull(ctx context.Context) error {
	slog.Debug("updating content repository", logfields.URL(s.url), logfields.Path(s.dir))
	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}

	opts := &git.PullOptions{RemoteName: "origin"}
	if s.branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + s.branch)
		opts.SingleBranch = true
	}
	err = worktree.PullContext(ctx, opts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}
