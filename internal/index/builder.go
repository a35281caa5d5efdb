package index

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/postbuilder/postbuilder/internal/config"
	"github.com/postbuilder/postbuilder/internal/content"
	"github.com/postbuilder/postbuilder/internal/logfields"
)

// Known frontmatter field names. Anything else is preserved in Document.Extra.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldPubDate     = "pubDate"
	fieldHeroImage   = "heroImage"
)

// Skipped describes one document excluded under the skip policy.
type Skipped struct {
	Path   string
	Offset int
	Field  string
	Reason string
}

// Result carries the built collection plus any documents excluded under the
// skip policy. With the fail policy, Skipped is always empty.
type Result struct {
	Collection *Collection
	Skipped    []Skipped
}

// Build validates, deduplicates, and orders raw records into a Collection.
//
// Duplicate identifiers abort the build regardless of policy: they indicate
// the content tree itself is broken. Metadata validation findings are
// collected across all records; the policy then decides between aborting
// with the full list (fail, the default) and excluding the offenders while
// reporting them on the result (skip).
func Build(records []content.RawRecord, policy config.InvalidPolicy) (*Result, error) {
	if err := checkDuplicates(records); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(records))
	var findings ValidationErrors
	var skipped []Skipped

	for _, rec := range records {
		doc, verr := buildDocument(rec)
		if verr != nil {
			findings = append(findings, verr)
			skipped = append(skipped, Skipped{
				Path:   rec.Path,
				Offset: rec.Offset,
				Field:  verr.Field,
				Reason: verr.Reason,
			})
			continue
		}
		docs = append(docs, doc)
	}

	if len(findings) > 0 && policy != config.PolicySkip {
		return nil, findings
	}
	for _, s := range skipped {
		slog.Warn("document excluded by validation",
			logfields.Path(s.Path),
			logfields.Offset(s.Offset),
			logfields.Field(s.Field),
			slog.String("reason", s.Reason))
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].PublishDate.Equal(docs[j].PublishDate) {
			return docs[i].PublishDate.After(docs[j].PublishDate)
		}
		return docs[i].Identifier < docs[j].Identifier
	})

	byID := make(map[string]int, len(docs))
	for i, doc := range docs {
		byID[doc.Identifier] = i
	}

	return &Result{
		Collection: &Collection{docs: docs, byID: byID},
		Skipped:    skipped,
	}, nil
}

// buildDocument validates one record and reports the first failing field.
func buildDocument(rec content.RawRecord) (Document, *ValidationError) {
	title := strings.TrimSpace(rec.Fields[fieldTitle])
	if title == "" {
		return Document{}, &ValidationError{
			Field:  "title",
			Path:   rec.Path,
			Offset: rec.Offset,
			Reason: "required field is missing or empty",
		}
	}

	rawDate := strings.TrimSpace(rec.Fields[fieldPubDate])
	if rawDate == "" {
		return Document{}, &ValidationError{
			Field:  "publishDate",
			Path:   rec.Path,
			Offset: rec.Offset,
			Reason: "required field is missing or empty",
		}
	}
	pubDate, err := time.Parse(time.DateOnly, rawDate)
	if err != nil {
		return Document{}, &ValidationError{
			Field:  "publishDate",
			Path:   rec.Path,
			Offset: rec.Offset,
			Reason: "not a valid YYYY-MM-DD date: " + rawDate,
		}
	}

	extra := make(map[string]string)
	for key, value := range rec.Fields {
		switch key {
		case fieldTitle, fieldDescription, fieldPubDate, fieldHeroImage:
		default:
			extra[key] = value
		}
	}

	return Document{
		Identifier:   identifierFor(rec.Path, rec.Offset),
		Title:        title,
		Description:  rec.Fields[fieldDescription],
		PublishDate:  pubDate,
		HeroImage:    rec.Fields[fieldHeroImage],
		Body:         rec.Body,
		SourcePath:   rec.Path,
		SourceOffset: rec.Offset,
		Checksum:     rec.Checksum,
		Extra:        extra,
	}, nil
}

// checkDuplicates derives every identifier up front so collisions surface
// before any per-document validation.
func checkDuplicates(records []content.RawRecord) error {
	seen := make(map[string]string, len(records))
	for _, rec := range records {
		id := identifierFor(rec.Path, rec.Offset)
		if first, ok := seen[id]; ok {
			return &DuplicateIdentifierError{
				Identifier: id,
				Paths:      []string{first, rec.Path},
			}
		}
		seen[id] = rec.Path
	}
	return nil
}
