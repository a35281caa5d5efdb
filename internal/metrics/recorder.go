// Package metrics provides observability hooks for pipeline builds. By
// default every component receives NoopRecorder; watch mode swaps in the
// Prometheus implementation when an exposition endpoint is configured.
package metrics

import "time"

// Recorder defines observability hooks for build metrics. Implementations
// must be safe for concurrent use.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	AddDocumentsLoaded(n int)
	AddDocumentsSkipped(n int)
	SetCollectionSize(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) AddDocumentsLoaded(int)             {}
func (NoopRecorder) AddDocumentsSkipped(int)            {}
func (NoopRecorder) SetCollectionSize(int)              {}
