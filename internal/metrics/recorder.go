// Package metrics records build pipeline observations. The Recorder
// interface keeps instrumentation optional: callers default to
// NoopRecorder and the Prometheus implementation is injected when enabled.
package metrics

import "time"

// Stage names a pipeline stage.
type Stage string

// Pipeline stages.
const (
	StageValidate Stage = "validate"
	StageManifest Stage = "manifest"
	StageCompile  Stage = "compile"
	StageIndex    Stage = "index"
	StagePublish  Stage = "publish"
)

// Outcome is the final status of a build.
type Outcome string

// Build outcomes.
const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder defines observability hooks for builds and stages.
type Recorder interface {
	ObserveStageDuration(stage Stage, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome Outcome)
	SetDocuments(locale string, n int)
	SetProblems(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(Stage, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncBuildOutcome(Outcome)                   {}
func (NoopRecorder) SetDocuments(string, int)                  {}
func (NoopRecorder) SetProblems(int)                           {}

// Since observes the time elapsed since start for stage.
func Since(r Recorder, stage Stage, start time.Time) {
	r.ObserveStageDuration(stage, time.Since(start))
}
