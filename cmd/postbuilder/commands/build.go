package commands

import (
	"context"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/postbuilder/postbuilder/internal/config"
	"github.com/postbuilder/postbuilder/internal/index"
	"github.com/postbuilder/postbuilder/internal/logfields"
	"github.com/postbuilder/postbuilder/internal/metrics"
	"github.com/postbuilder/postbuilder/internal/state"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides config)"`
	Render      bool   `help:"Render document bodies to HTML fragments alongside the index"`
	SkipInvalid bool   `name:"skip-invalid" help:"Exclude invalid documents instead of failing the build"`
}

func (b *BuildCmd) Run(g *Global) error {
	cfg, err := LoadConfig(g)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Render {
		cfg.Output.Render = true
	}
	policy := cfg.Content.OnInvalid
	if b.SkipInvalid {
		policy = config.PolicySkip
	}

	return RunBuild(context.Background(), cfg, policy, metrics.NoopRecorder{})
}

// RunBuild performs one full build: pipeline pass, output writing, and build
// history recording. Shared between the build command and watch mode.
func RunBuild(ctx context.Context, cfg *config.Config, policy config.InvalidPolicy, rec metrics.Recorder) error {
	store := openStateStore(cfg)
	if store != nil {
		defer store.Close()
	}

	var buildID string
	if store != nil {
		id, err := store.BeginBuild(ctx)
		if err != nil {
			slog.Warn("could not record build start", logfields.Error(err))
		} else {
			buildID = id
		}
	}

	result, err := RunPipeline(ctx, cfg, policy, rec)
	if err != nil {
		finishBuild(ctx, store, buildID, "failed", nil, 0)
		return err
	}

	if err := WriteOutput(cfg, result); err != nil {
		finishBuild(ctx, store, buildID, "failed", nil, 0)
		return err
	}

	docs := documentRecords(result)
	reportChanges(ctx, store, docs)
	finishBuild(ctx, store, buildID, "success", docs, len(result.Skipped))

	slog.Info("build complete",
		logfields.BuildID(buildID),
		logfields.Count(result.Collection.Len()),
		logfields.Output(cfg.Output.Directory))
	return nil
}

// openStateStore opens the build history database. State is best-effort: a
// build must not fail because its history cannot be recorded.
func openStateStore(cfg *config.Config) *state.Store {
	if cfg.State.Path == "" {
		return nil
	}
	if dir := filepath.Dir(cfg.State.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Warn("could not create state directory", logfields.Path(dir), logfields.Error(err))
			return nil
		}
	}
	store, err := state.Open(cfg.State.Path)
	if err != nil {
		slog.Warn("build history unavailable", logfields.Path(cfg.State.Path), logfields.Error(err))
		return nil
	}
	return store
}

func finishBuild(ctx context.Context, store *state.Store, buildID, outcome string, docs []state.DocumentRecord, skipped int) {
	if store == nil || buildID == "" {
		return
	}
	if err := store.FinishBuild(ctx, buildID, outcome, docs, skipped); err != nil {
		slog.Warn("could not record build outcome", logfields.BuildID(buildID), logfields.Error(err))
	}
}

func documentRecords(result *index.Result) []state.DocumentRecord {
	docs := result.Collection.All()
	records := make([]state.DocumentRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, state.DocumentRecord{
			Identifier: doc.Identifier,
			Path:       doc.SourcePath,
			Checksum:   hex.EncodeToString(doc.Checksum),
		})
	}
	return records
}

// reportChanges logs the document-level diff against the previous build.
func reportChanges(ctx context.Context, store *state.Store, docs []state.DocumentRecord) {
	if store == nil {
		return
	}
	last, err := store.LastBuild(ctx)
	if err != nil || last == nil {
		return
	}
	changes, err := store.ChangedSince(ctx, last.ID, docs)
	if err != nil {
		slog.Warn("could not diff against previous build", logfields.Error(err))
		return
	}
	if changes.Empty() {
		slog.Debug("no content changes since previous build", logfields.BuildID(last.ID))
		return
	}
	slog.Info("content changed since previous build",
		slog.Int("added", len(changes.Added)),
		slog.Int("changed", len(changes.Changed)),
		slog.Int("removed", len(changes.Removed)))
}
