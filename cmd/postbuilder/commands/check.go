package commands

import (
	"context"
	"fmt"

	"github.com/postbuilder/postbuilder/internal/metrics"
)

// CheckCmd implements the 'check' command: a dry run that validates content
// without writing anything.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global) error {
	cfg, err := LoadConfig(g)
	if err != nil {
		return err
	}

	result, err := RunPipeline(context.Background(), cfg, cfg.Content.OnInvalid, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	fmt.Printf("%d document(s) valid\n", result.Collection.Len())
	for _, s := range result.Skipped {
		fmt.Printf("skipped: %s (document %d): field %s: %s\n", s.Path, s.Offset, s.Field, s.Reason)
	}
	return nil
}
