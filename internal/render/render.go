// Package render wraps the external Markdown compiler. The pipeline itself
// only guarantees metadata and body stability; HTML output is a convenience
// for consumers that want pre-rendered fragments.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// Renderer converts Markdown bodies to HTML fragments.
type Renderer struct {
	md goldmark.Markdown
}

// New constructs a Renderer with CommonMark defaults.
func New() *Renderer {
	return &Renderer{md: goldmark.New()}
}

// HTML renders a Markdown body to an HTML fragment.
func (r *Renderer) HTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
