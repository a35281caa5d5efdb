// Package content discovers markdown source files under a content root and
// turns them into raw parsed records for the indexer.
package content

import (
	"bytes"
	"context"
	"crypto/sha256"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/postbuilder/postbuilder/internal/errors"
	"github.com/postbuilder/postbuilder/internal/frontmatter"
	"github.com/postbuilder/postbuilder/internal/logfields"
)

// RawRecord is one article's metadata-plus-body unit before validation.
type RawRecord struct {
	// Path is the source file path relative to the content root, slash-separated.
	Path string
	// Offset is the 1-based position of the sub-document within its file.
	// Standalone files always produce offset 1.
	Offset int
	// Fields maps frontmatter field names to their string values.
	Fields map[string]string
	// Body is the markdown source after the closing fence, whitespace-trimmed.
	Body string
	// Checksum is the sha-256 digest of the raw sub-document source.
	Checksum []byte
}

// LoaderConfig configures content discovery.
type LoaderConfig struct {
	// Root is the directory containing source documents.
	Root string
	// Separator is the line that splits multi-article files.
	Separator string
	// Extensions limits discovery to matching files (with leading dot).
	Extensions []string
}

// Loader walks a content root and produces RawRecords.
type Loader struct {
	root       string
	separator  string
	extensions map[string]struct{}
}

// NewLoader constructs a Loader for the given configuration.
func NewLoader(cfg LoaderConfig) *Loader {
	exts := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	if len(exts) == 0 {
		exts[".md"] = struct{}{}
	}
	return &Loader{
		root:       filepath.Clean(cfg.Root),
		separator:  cfg.Separator,
		extensions: exts,
	}
}

// LoadAll reads every source file under the root and returns one RawRecord
// per sub-document. Order follows directory traversal; the indexer owns final
// ordering. Structural parse failures abort the whole load.
func (l *Loader) LoadAll(ctx context.Context) ([]RawRecord, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ContentRootMissing(l.root)
		}
		return nil, apperrors.LoadFailed(l.root, err)
	}
	if !info.IsDir() {
		return nil, apperrors.ContentRootMissing(l.root).WithContext("reason", "not a directory")
	}

	var records []RawRecord
	walkErr := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories hold working state, not content.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != l.root {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !l.matchesExtension(path) {
			return nil
		}

		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		fileRecords, err := l.loadFile(path, rel)
		if err != nil {
			return err
		}
		records = append(records, fileRecords...)
		return nil
	})
	if walkErr != nil {
		if pe, ok := walkErr.(*apperrors.PipelineError); ok {
			return nil, pe
		}
		return nil, apperrors.LoadFailed(l.root, walkErr)
	}

	slog.Debug("content load complete", logfields.Root(l.root), logfields.Count(len(records)))
	return records, nil
}

// loadFile reads one physical file and emits a record per sub-document.
func (l *Loader) loadFile(path, rel string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.LoadFailed(rel, err)
	}

	parts := frontmatter.SplitDocuments(data, l.separator)

	records := make([]RawRecord, 0, len(parts))
	offset := 0
	for _, part := range parts {
		trimmed := bytes.TrimSpace(part)
		if len(trimmed) == 0 {
			// Leading or trailing separators produce empty parts; a file of
			// nothing but whitespace has no documents either.
			continue
		}
		offset++

		fm, body, err := frontmatter.Split(trimmed)
		if err != nil {
			return nil, apperrors.LoadFailed(rel, err).
				WithContext("offset", offset)
		}
		fields, err := frontmatter.ParseFields(fm)
		if err != nil {
			return nil, apperrors.LoadFailed(rel, err).
				WithContext("offset", offset)
		}

		sum := sha256.Sum256(part)
		records = append(records, RawRecord{
			Path:     rel,
			Offset:   offset,
			Fields:   fields,
			Body:     string(bytes.TrimSpace(body)),
			Checksum: sum[:],
		})
	}

	return records, nil
}

func (l *Loader) matchesExtension(path string) bool {
	_, ok := l.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
