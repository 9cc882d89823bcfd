package metrics

import (
	"fmt"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "syllabus"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	documents     *prom.GaugeVec
	problems      prom.Gauge
}

// NewPrometheusRecorder constructs and registers the build metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		documents: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "search_documents",
			Help:      "Search documents in the last built index, per locale",
		}, []string{"locale"}),
		problems: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "content_problems",
			Help:      "Content problems reported by the last build",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.buildOutcome, pr.documents, pr.problems)
	return pr
}

// Registry returns the registry the recorder's metrics live in.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage Stage, d time.Duration) {
	p.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome Outcome) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetDocuments(locale string, n int) {
	p.documents.WithLabelValues(locale).Set(float64(n))
}

func (p *PrometheusRecorder) SetProblems(n int) {
	p.problems.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry to path for the node exporter textfile
// collector. Used by one-shot builds that exit before any scrape.
func WriteTextfile(reg *prom.Registry, path string) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}
