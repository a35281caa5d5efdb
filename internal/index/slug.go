package index

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes accented characters and drops the combining
// marks, so "Déjà Vu.md" slugs the same as "Deja Vu.md".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases the input and folds every run of non-alphanumeric
// characters into a single hyphen, producing a URL-safe identifier.
func Slugify(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			if b.Len() > 0 {
				pendingHyphen = true
			}
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// identifierFor derives a document identifier from its source path and
// sub-document offset. The filename stem is slugified; the Nth sub-document
// of a split file (N >= 2) gets a numeric suffix so identifiers stay unique
// and stable under title edits.
func identifierFor(sourcePath string, offset int) string {
	base := path.Base(sourcePath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	id := Slugify(stem)
	if id == "" {
		id = "untitled"
	}
	if offset >= 2 {
		id = fmt.Sprintf("%s-%d", id, offset)
	}
	return id
}
