package index

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/postbuilder/postbuilder/internal/config"
	"github.com/postbuilder/postbuilder/internal/content"
)

func record(path string, offset int, fields map[string]string) content.RawRecord {
	return content.RawRecord{
		Path:     path,
		Offset:   offset,
		Fields:   fields,
		Body:     "body of " + path,
		Checksum: []byte{0x01},
	}
}

func validRecord(path, title, date string) content.RawRecord {
	return record(path, 1, map[string]string{"title": title, "pubDate": date})
}

func TestBuild_SortsByDateDescendingThenIdentifier(t *testing.T) {
	records := []content.RawRecord{
		validRecord("older.md", "Older", "2023-06-10"),
		validRecord("newest.md", "Newest", "2024-05-01"),
		validRecord("bravo.md", "Tie B", "2024-01-01"),
		validRecord("alpha.md", "Tie A", "2024-01-01"),
	}

	result, err := Build(records, config.PolicyFail)
	require.NoError(t, err)

	docs := result.Collection.All()
	require.Len(t, docs, 4)
	require.Equal(t, "newest", docs[0].Identifier)
	require.Equal(t, "alpha", docs[1].Identifier)
	require.Equal(t, "bravo", docs[2].Identifier)
	require.Equal(t, "older", docs[3].Identifier)
}

func TestBuild_ByIdentifierRoundTrip(t *testing.T) {
	result, err := Build([]content.RawRecord{
		record("test-post.md", 1, map[string]string{
			"title":       "Test",
			"pubDate":     "2024-01-01",
			"description": "D",
		}),
	}, config.PolicyFail)
	require.NoError(t, err)

	for _, doc := range result.Collection.All() {
		got, err := result.Collection.ByIdentifier(doc.Identifier)
		require.NoError(t, err)
		require.Equal(t, doc, got)
	}

	doc, err := result.Collection.ByIdentifier("test-post")
	require.NoError(t, err)
	require.Equal(t, "Test", doc.Title)
	require.Equal(t, "D", doc.Description)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), doc.PublishDate)
	require.NotEmpty(t, doc.Identifier)
}

func TestBuild_UnknownIdentifier_ReturnsNotFound(t *testing.T) {
	result, err := Build(nil, config.PolicyFail)
	require.NoError(t, err)

	_, err = result.Collection.ByIdentifier("ghost")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "ghost", nf.Identifier)
}

func TestBuild_EmptyInput_ReturnsEmptyCollection(t *testing.T) {
	result, err := Build(nil, config.PolicyFail)
	require.NoError(t, err)
	require.Empty(t, result.Collection.All())
	require.Zero(t, result.Collection.Len())
}

func TestBuild_DuplicateIdentifiers_AbortsBuild(t *testing.T) {
	records := []content.RawRecord{
		validRecord("posts/hello.md", "One", "2024-01-01"),
		validRecord("drafts/hello.md", "Two", "2024-01-02"),
	}

	_, err := Build(records, config.PolicyFail)
	var dup *DuplicateIdentifierError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "hello", dup.Identifier)
	require.Len(t, dup.Paths, 2)
}

func TestBuild_DuplicatesAbortEvenUnderSkipPolicy(t *testing.T) {
	records := []content.RawRecord{
		validRecord("a/post.md", "One", "2024-01-01"),
		validRecord("b/post.md", "Two", "2024-01-02"),
	}

	_, err := Build(records, config.PolicySkip)
	var dup *DuplicateIdentifierError
	require.True(t, errors.As(err, &dup))
}

func TestBuild_MissingTitle_FailsNamingField(t *testing.T) {
	records := []content.RawRecord{
		record("untitled-post.md", 1, map[string]string{"pubDate": "2024-01-01", "title": "  "}),
	}

	_, err := Build(records, config.PolicyFail)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "title", verr.Field)
	require.Equal(t, "untitled-post.md", verr.Path)
}

func TestBuild_UnparseableDate_FailsNamingPublishDate(t *testing.T) {
	records := []content.RawRecord{
		record("bad-date.md", 1, map[string]string{"title": "T", "pubDate": "June 19 2024"}),
	}

	_, err := Build(records, config.PolicyFail)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "publishDate", verr.Field)
	require.Equal(t, "bad-date.md", verr.Path)
	require.Contains(t, verr.Reason, "June 19 2024")
}

func TestBuild_FailPolicy_ReportsAllFindings(t *testing.T) {
	records := []content.RawRecord{
		record("no-title.md", 1, map[string]string{"pubDate": "2024-01-01"}),
		record("no-date.md", 1, map[string]string{"title": "T"}),
		validRecord("fine.md", "Fine", "2024-01-01"),
	}

	_, err := Build(records, config.PolicyFail)
	require.Error(t, err)

	var all ValidationErrors
	require.True(t, errors.As(err, &all))
	require.Len(t, all, 2)
}

func TestBuild_SkipPolicy_ExcludesAndReportsOffenders(t *testing.T) {
	records := []content.RawRecord{
		record("invalid.md", 1, map[string]string{"title": "T", "pubDate": "not-a-date"}),
		validRecord("fine.md", "Fine", "2024-01-01"),
	}

	result, err := Build(records, config.PolicySkip)
	require.NoError(t, err)
	require.Equal(t, 1, result.Collection.Len())
	require.Len(t, result.Skipped, 1)
	require.Equal(t, "invalid.md", result.Skipped[0].Path)
	require.Equal(t, "publishDate", result.Skipped[0].Field)
}

func TestBuild_SubDocumentsGetNumericSuffixes(t *testing.T) {
	records := []content.RawRecord{
		record("bundle.md", 1, map[string]string{"title": "A", "pubDate": "2024-01-01"}),
		record("bundle.md", 2, map[string]string{"title": "B", "pubDate": "2024-01-02"}),
		record("bundle.md", 3, map[string]string{"title": "C", "pubDate": "2024-01-03"}),
	}

	result, err := Build(records, config.PolicyFail)
	require.NoError(t, err)

	ids := make([]string, 0, 3)
	for _, doc := range result.Collection.All() {
		ids = append(ids, doc.Identifier)
	}
	// Newest first.
	require.Equal(t, []string{"bundle-3", "bundle-2", "bundle"}, ids)
}

func TestBuild_PreservesUnknownFieldsInExtra(t *testing.T) {
	records := []content.RawRecord{
		record("post.md", 1, map[string]string{
			"title":     "T",
			"pubDate":   "2024-01-01",
			"heroImage": "/img/hero.png",
			"layout":    "wide",
		}),
	}

	result, err := Build(records, config.PolicyFail)
	require.NoError(t, err)

	doc, err := result.Collection.ByIdentifier("post")
	require.NoError(t, err)
	require.Equal(t, "/img/hero.png", doc.HeroImage)
	require.Equal(t, "wide", doc.Extra["layout"])
	require.NotContains(t, doc.Extra, "title")
}

func TestBuild_AllReturnsACopy(t *testing.T) {
	result, err := Build([]content.RawRecord{validRecord("post.md", "T", "2024-01-01")}, config.PolicyFail)
	require.NoError(t, err)

	docs := result.Collection.All()
	docs[0].Title = "mutated"

	again := result.Collection.All()
	require.Equal(t, "T", again[0].Title)
}
