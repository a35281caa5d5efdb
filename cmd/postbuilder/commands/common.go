// Package commands implements the postbuilder CLI commands.
package commands

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/postbuilder/postbuilder/internal/config"
	"github.com/postbuilder/postbuilder/internal/content"
	"github.com/postbuilder/postbuilder/internal/index"
	"github.com/postbuilder/postbuilder/internal/logfields"
	"github.com/postbuilder/postbuilder/internal/metrics"
	"github.com/postbuilder/postbuilder/internal/source"
)

// Global holds flags shared by every command.
type Global struct {
	Config  string `short:"c" help:"Configuration file path" default:"postbuilder.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
}

// CLI is the root command tree.
type CLI struct {
	Global

	Build BuildCmd `cmd:"" help:"Build the content index and write output"`
	Check CheckCmd `cmd:"" help:"Validate content without writing output"`
	List  ListCmd  `cmd:"" help:"Print the ordered document collection"`
	Init  InitCmd  `cmd:"" help:"Write a starter configuration file"`
	Watch WatchCmd `cmd:"" help:"Rebuild continuously as content changes"`
}

// LoadConfig loads configuration and installs the logging handler it selects.
func LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	SetupLogging(cfg.Logging, g.Verbose)
	return cfg, nil
}

// SetupLogging installs the default slog handler per configuration. The
// verbose flag wins over the configured level.
func SetupLogging(cfg config.LoggingConfig, verbose bool) {
	level := slog.LevelInfo
	switch cfg.Level {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// ResolveContentRoot returns the directory to load from, syncing the remote
// content repository first when one is configured.
func ResolveContentRoot(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.Source.Git != nil {
		return source.NewGitSource(*cfg.Source.Git).Sync(ctx)
	}
	return cfg.Content.Root, nil
}

// RunPipeline executes one load-and-index pass: sync source, walk the content
// root, build the collection.
func RunPipeline(ctx context.Context, cfg *config.Config, policy config.InvalidPolicy, rec metrics.Recorder) (*index.Result, error) {
	start := time.Now()

	root, err := ResolveContentRoot(ctx, cfg)
	if err != nil {
		rec.IncBuildOutcome("failed")
		return nil, err
	}

	loader := content.NewLoader(content.LoaderConfig{
		Root:       root,
		Separator:  cfg.Content.Separator,
		Extensions: cfg.Content.Extensions,
	})
	records, err := loader.LoadAll(ctx)
	if err != nil {
		rec.IncBuildOutcome("failed")
		return nil, err
	}
	rec.AddDocumentsLoaded(len(records))

	result, err := index.Build(records, policy)
	if err != nil {
		rec.IncBuildOutcome("failed")
		return nil, err
	}

	rec.AddDocumentsSkipped(len(result.Skipped))
	rec.SetCollectionSize(result.Collection.Len())
	rec.ObserveBuildDuration(time.Since(start))
	rec.IncBuildOutcome("success")

	slog.Info("pipeline pass complete",
		logfields.Root(root),
		logfields.Count(result.Collection.Len()),
		slog.Int("skipped", len(result.Skipped)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return result, nil
}
