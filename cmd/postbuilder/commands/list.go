package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/postbuilder/postbuilder/internal/metrics"
)

// ListCmd implements the 'list' command.
type ListCmd struct{}

func (l *ListCmd) Run(g *Global) error {
	cfg, err := LoadConfig(g)
	if err != nil {
		return err
	}

	result, err := RunPipeline(context.Background(), cfg, cfg.Content.OnInvalid, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "IDENTIFIER\tDATE\tTITLE")
	for _, doc := range result.Collection.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", doc.Identifier, doc.PublishDate.Format(time.DateOnly), doc.Title)
	}
	return w.Flush()
}
