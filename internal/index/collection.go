// Package index validates, deduplicates, and orders raw content records into
// an immutable collection consumed by the rendering layer.
package index

import (
	"time"
)

// Document is one validated article handed across the rendering boundary.
type Document struct {
	// Identifier is the unique, URL-safe slug naming this document.
	Identifier string
	// Title is the required display title.
	Title string
	// Description is an optional summary for listing pages.
	Description string
	// PublishDate orders the collection, newest first.
	PublishDate time.Time
	// HeroImage is an optional image path reference; existence is not checked.
	HeroImage string
	// Body is the raw markdown source. May be empty.
	Body string
	// SourcePath is the originating file, relative to the content root.
	SourcePath string
	// SourceOffset is the 1-based sub-document position within the file.
	SourceOffset int
	// Checksum is the sha-256 digest of the raw sub-document source.
	Checksum []byte
	// Extra holds frontmatter fields beyond the known schema, preserved for
	// forward compatibility.
	Extra map[string]string
}

// Collection is the immutable, ordered set of validated documents. All
// mutation happens during Build; readers receive a write-once snapshot that
// is safe for concurrent use.
type Collection struct {
	docs []Document
	byID map[string]int
}

// All returns the documents ordered by publish date descending, ties broken
// by identifier ascending. The returned slice is a copy; iterating it never
// observes mutation.
func (c *Collection) All() []Document {
	return append([]Document(nil), c.docs...)
}

// Len reports the number of documents in the collection.
func (c *Collection) Len() int {
	return len(c.docs)
}

// ByIdentifier returns the document with the given identifier, or a
// NotFoundError.
func (c *Collection) ByIdentifier(id string) (Document, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Document{}, &NotFoundError{Identifier: id}
	}
	return c.docs[idx], nil
}
