package index

import (
	"fmt"
	"strings"
)

// ValidationError reports one missing or malformed metadata field on one
// document. Validation findings are collected across the whole record set
// before the policy decides whether the build aborts.
type ValidationError struct {
	Field  string
	Path   string
	Offset int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %q in %s (document %d): %s", e.Field, e.Path, e.Offset, e.Reason)
}

// ValidationErrors aggregates per-document findings into one build error.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return fmt.Sprintf("%d document(s) failed validation: %s", len(e), strings.Join(parts, "; "))
}

// Unwrap exposes the individual findings to errors.Is/As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, v := range e {
		errs[i] = v
	}
	return errs
}

// DuplicateIdentifierError indicates two records resolved to the same
// identifier. This is a structural integrity violation; the build aborts
// regardless of the validation policy.
type DuplicateIdentifierError struct {
	Identifier string
	Paths      []string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate identifier %q derived from %s", e.Identifier, strings.Join(e.Paths, " and "))
}

// NotFoundError indicates a point lookup for an unknown identifier.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no document with identifier %q", e.Identifier)
}
