package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/postbuilder/postbuilder/cmd/postbuilder/commands"
)

func main() {
	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("postbuilder"),
		kong.Description("Content ingestion and indexing pipeline for static blogs"),
		kong.UsageOnError(),
	)

	if err := kctx.Run(&cli.Global); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
