package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/postbuilder/postbuilder/internal/config"
	"github.com/postbuilder/postbuilder/internal/index"
	"github.com/postbuilder/postbuilder/internal/render"
)

// excerptLimit bounds excerpt length in runes for listing pages.
const excerptLimit = 200

type documentJSON struct {
	Identifier  string            `json:"identifier"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	PublishDate string            `json:"publish_date"`
	HeroImage   string            `json:"hero_image,omitempty"`
	Excerpt     string            `json:"excerpt,omitempty"`
	Body        string            `json:"body"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// WriteOutput writes index.json (and per-document HTML fragments when
// rendering is enabled) to the configured output directory.
func WriteOutput(cfg *config.Config, result *index.Result) error {
	outDir := cfg.Output.Directory
	if cfg.Output.Clean {
		if err := os.RemoveAll(outDir); err != nil {
			return fmt.Errorf("clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var renderer *render.Renderer
	if cfg.Output.Render {
		renderer = render.New()
		if err := os.MkdirAll(filepath.Join(outDir, "html"), 0o755); err != nil {
			return fmt.Errorf("create html directory: %w", err)
		}
	}

	docs := result.Collection.All()
	entries := make([]documentJSON, 0, len(docs))
	for _, doc := range docs {
		entry := documentJSON{
			Identifier:  doc.Identifier,
			Title:       doc.Title,
			Description: doc.Description,
			PublishDate: doc.PublishDate.Format(time.DateOnly),
			HeroImage:   doc.HeroImage,
			Body:        doc.Body,
		}
		if len(doc.Extra) > 0 {
			entry.Extra = doc.Extra
		}
		if renderer != nil {
			html, err := renderer.HTML(doc.Body)
			if err != nil {
				return fmt.Errorf("render %s: %w", doc.Identifier, err)
			}
			entry.Excerpt = render.Excerpt(html, excerptLimit)
			htmlPath := filepath.Join(outDir, "html", doc.Identifier+".html")
			if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", htmlPath, err)
			}
		}
		entries = append(entries, entry)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	indexPath := filepath.Join(outDir, "index.json")
	if err := os.WriteFile(indexPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", indexPath, err)
	}
	return nil
}
