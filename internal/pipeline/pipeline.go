// Package pipeline runs the content build end to end: manifest, search
// indexes, artifacts, publish, and the bookkeeping around them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/compiler"
	"github.com/starford/syllabus/internal/ledger"
	"github.com/starford/syllabus/internal/logfields"
	"github.com/starford/syllabus/internal/manifest"
	"github.com/starford/syllabus/internal/metrics"
	"github.com/starford/syllabus/internal/models"
	"github.com/starford/syllabus/internal/publish"
	"github.com/starford/syllabus/internal/search"
	"github.com/starford/syllabus/internal/sse"
	"github.com/starford/syllabus/internal/storage"
)

// Settings are the directories and tunables of a pipeline.
type Settings struct {
	ContentRoot    string
	ArtifactsDir   string
	PublicDir      string
	Workers        int
	ExcerptLength  int
	AutoHeadingIDs bool
	Publish        publish.Options
}

// Result describes one successful build.
type Result struct {
	BuildID  string
	Manifest *manifest.Manifest
	Search   *search.Result
	Report   *publish.Report
	Duration time.Duration
}

// EventSink receives build lifecycle events.
type EventSink interface {
	Publish(sse.Event)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLedger records every build in l.
func WithLedger(l ledger.Ledger) Option {
	return func(p *Pipeline) { p.ledger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithEvents sends build.started and build.finished/build.failed events to sink.
func WithEvents(sink EventSink) Option {
	return func(p *Pipeline) { p.events = sink }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Pipeline coordinates the build stages.
type Pipeline struct {
	settings Settings
	ledger   ledger.Ledger
	recorder metrics.Recorder
	events   EventSink
	logger   *slog.Logger
}

// New creates a Pipeline.
func New(s Settings, opts ...Option) *Pipeline {
	p := &Pipeline{
		settings: s,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Validate builds the manifest without writing anything.
func (p *Pipeline) Validate(ctx context.Context) (*manifest.Manifest, error) {
	return p.manifest(ctx, p.logger)
}

// Build runs a full build and writes the artifacts. With publishAfter set
// the artifacts are published into the public root as well.
//
// A failed build leaves the previous artifacts and published files alone.
func (p *Pipeline) Build(ctx context.Context, publishAfter bool) (*Result, error) {
	res := &Result{BuildID: uuid.NewString()}
	logger := p.logger.With(logfields.BuildID(res.BuildID))
	start := time.Now()
	p.emit(sse.EventBuildStarted, map[string]any{"build_id": res.BuildID})

	err := p.build(ctx, logger, res, publishAfter)
	res.Duration = time.Since(start)
	p.finish(ctx, logger, start, res, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) build(ctx context.Context, logger *slog.Logger, res *Result, publishAfter bool) error {
	m, err := p.manifest(ctx, logger)
	if err != nil {
		return err
	}
	res.Manifest = m

	start := time.Now()
	idx, err := search.NewBuilder(p.settings.ExcerptLength).Build(m)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	out, err := storage.EnsureFS(p.settings.ArtifactsDir)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := search.WriteArtifacts(out, m, idx); err != nil {
		return fmt.Errorf("pipeline: write artifacts: %w", err)
	}
	metrics.Since(p.recorder, metrics.StageIndex, start)
	res.Search = idx
	for _, l := range models.Locales {
		p.recorder.SetDocuments(string(l), idx.Meta.Locales[l].Documents)
	}
	logger.Info("artifacts written", logfields.Path(p.settings.ArtifactsDir), logfields.Hash(idx.Meta.Hash))

	if !publishAfter {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	report, err := p.publish(logger)
	if err != nil {
		return err
	}
	res.Report = report
	return nil
}

// Publish publishes existing artifacts. A missing artifacts directory yields
// apperr.ErrPublishSkipped. The newest ledger entry with the published hash
// is flagged as published.
func (p *Pipeline) Publish(ctx context.Context) (*publish.Report, error) {
	report, err := p.publish(p.logger)
	if err != nil {
		return nil, err
	}
	if p.ledger == nil {
		return report, nil
	}
	builds, err := p.ledger.Recent(ctx, 50)
	if err != nil {
		p.logger.Warn("ledger lookup failed", logfields.Error(err))
		return report, nil
	}
	for _, b := range builds {
		if b.Hash == report.Hash && b.Status == ledger.StatusSuccess {
			if err := p.ledger.MarkPublished(ctx, b.ID); err != nil {
				p.logger.Warn("ledger update failed", logfields.BuildID(b.ID), logfields.Error(err))
			}
			break
		}
	}
	return report, nil
}

func (p *Pipeline) manifest(ctx context.Context, logger *slog.Logger) (*manifest.Manifest, error) {
	store, err := storage.NewFS(p.settings.ContentRoot)
	if err != nil {
		return nil, fmt.Errorf("pipeline: content root: %w", err)
	}
	c := compiler.New(compiler.Options{AutoHeadingID: p.settings.AutoHeadingIDs})
	b := manifest.NewBuilder(store, c,
		manifest.WithWorkers(p.settings.Workers),
		manifest.WithLogger(logger),
		manifest.WithRecorder(p.recorder),
	)
	return b.Build(ctx)
}

func (p *Pipeline) publish(logger *slog.Logger) (*publish.Report, error) {
	start := time.Now()
	pub := publish.New(p.settings.ArtifactsDir, p.settings.PublicDir, p.settings.Publish, logger)
	report, err := pub.Publish()
	if err != nil {
		return nil, err
	}
	metrics.Since(p.recorder, metrics.StagePublish, start)
	return report, nil
}

// finish records metrics and the ledger row for a build attempt.
func (p *Pipeline) finish(ctx context.Context, logger *slog.Logger, start time.Time, res *Result, err error) {
	outcome := metrics.OutcomeSuccess
	status := ledger.StatusSuccess
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome, status = metrics.OutcomeCanceled, ledger.StatusCanceled
	case err != nil:
		outcome, status = metrics.OutcomeFailed, ledger.StatusFailed
	}
	problems := apperr.Problems(err)
	p.recorder.SetProblems(len(problems))
	p.recorder.ObserveBuildDuration(res.Duration)
	p.recorder.IncBuildOutcome(outcome)

	if err != nil {
		p.emit(sse.EventBuildFailed, map[string]any{
			"build_id": res.BuildID,
			"problems": problems,
			"error":    err.Error(),
		})
		logger.Error("build failed",
			logfields.Count(len(problems)),
			logfields.DurationMS(res.Duration.Milliseconds()),
			logfields.Error(err),
		)
	} else {
		p.emit(sse.EventBuildFinished, map[string]any{
			"build_id":  res.BuildID,
			"hash":      res.Search.Meta.Hash,
			"published": res.Report != nil,
		})
		logger.Info("build finished",
			logfields.Hash(res.Search.Meta.Hash),
			logfields.DurationMS(res.Duration.Milliseconds()),
			slog.Bool("published", res.Report != nil),
		)
	}

	if p.ledger == nil {
		return
	}
	row := ledger.Build{
		ID:        res.BuildID,
		StartedAt: start,
		Duration:  res.Duration,
		Status:    status,
		Problems:  len(problems),
		Published: res.Report != nil,
	}
	if res.Manifest != nil {
		st := res.Manifest.Stats()
		row.Subjects, row.Teachers, row.Articles, row.SystemArticles = st.Subjects, st.Teachers, st.Articles, st.SystemArticles
	}
	if res.Search != nil {
		row.Hash = res.Search.Meta.Hash
	}
	// The build context may already be canceled; the row is still written.
	if _, lerr := p.ledger.Record(context.WithoutCancel(ctx), row); lerr != nil {
		logger.Warn("ledger record failed", logfields.Error(lerr))
	}
}

func (p *Pipeline) emit(eventType string, data map[string]any) {
	if p.events != nil {
		p.events.Publish(sse.Event{Type: eventType, Data: data})
	}
}
