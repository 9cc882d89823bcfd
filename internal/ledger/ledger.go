package ledger

import (
	"context"
	"time"
)

// Status is the outcome of one recorded build.
type Status string

// Build statuses.
const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Build is one row of the builds table.
type Build struct {
	ID             string        `json:"id"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"-"`
	Status         Status        `json:"status"`
	Hash           string        `json:"hash,omitempty"`
	Subjects       int           `json:"subjects"`
	Teachers       int           `json:"teachers"`
	Articles       int           `json:"articles"`
	SystemArticles int           `json:"system_articles"`
	Problems       int           `json:"problems"`
	Published      bool          `json:"published"`
}

// DurationMS is the build duration in milliseconds.
func (b Build) DurationMS() int64 {
	return b.Duration.Milliseconds()
}

// Ledger records build runs.
// Consumers should depend on this interface rather than the concrete *DB type.
type Ledger interface {
	Record(ctx context.Context, b Build) (Build, error)
	MarkPublished(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Build, error)
	Recent(ctx context.Context, limit int) ([]Build, error)
	Close() error
}

var _ Ledger = (*DB)(nil)
