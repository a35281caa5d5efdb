package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
	documentsLoaded  prom.Counter
	documentsSkipped prom.Counter
	collectionSize   prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on the
// provided registry (a fresh registry is created when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "postbuilder",
			Name:      "build_duration_seconds",
			Help:      "Total duration of index builds",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "postbuilder",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		documentsLoaded: prom.NewCounter(prom.CounterOpts{
			Namespace: "postbuilder",
			Name:      "documents_loaded_total",
			Help:      "Raw records produced by the loader",
		}),
		documentsSkipped: prom.NewCounter(prom.CounterOpts{
			Namespace: "postbuilder",
			Name:      "documents_skipped_total",
			Help:      "Documents excluded by the validation policy",
		}),
		collectionSize: prom.NewGauge(prom.GaugeOpts{
			Namespace: "postbuilder",
			Name:      "collection_documents",
			Help:      "Documents in the most recently built collection",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.documentsLoaded, pr.documentsSkipped, pr.collectionSize)
	return pr
}

func (pr *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	pr.buildDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncBuildOutcome(outcome string) {
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) AddDocumentsLoaded(n int) {
	pr.documentsLoaded.Add(float64(n))
}

func (pr *PrometheusRecorder) AddDocumentsSkipped(n int) {
	pr.documentsSkipped.Add(float64(n))
}

func (pr *PrometheusRecorder) SetCollectionSize(n int) {
	pr.collectionSize.Set(float64(n))
}
