package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/logfields"
	"github.com/starford/syllabus/internal/watch"
)

// Watch builds and publishes once, then rebuilds and republishes after every
// burst of content changes until ctx is cancelled. Failed builds are logged
// and leave the last published index in place.
func (p *Pipeline) Watch(ctx context.Context, debounce time.Duration) error {
	p.rebuild(ctx, nil)
	return watch.Watch(ctx, p.settings.ContentRoot, debounce, p.logger, p.rebuild)
}

func (p *Pipeline) rebuild(ctx context.Context, changed []string) {
	if len(changed) > 0 {
		p.logger.Info("content changed", logfields.Count(len(changed)), logfields.Path(changed[0]))
	}
	if _, err := p.Build(ctx, true); err != nil {
		for _, pr := range apperr.Problems(err) {
			p.logger.Warn("content problem",
				logfields.Path(pr.Path),
				logfields.Kind(string(pr.Kind)),
				slog.String("problem", pr.String()),
			)
		}
	}
}
