package server

import (
	"time"

	"github.com/starford/syllabus/internal/ledger"
)

// BuildItem is one ledger row in API responses.
type BuildItem struct {
	ID             string        `json:"id"`
	StartedAt      time.Time     `json:"started_at"`
	DurationMS     int64         `json:"duration_ms"`
	Status         ledger.Status `json:"status"`
	Hash           string        `json:"hash,omitempty"`
	Subjects       int           `json:"subjects"`
	Teachers       int           `json:"teachers"`
	Articles       int           `json:"articles"`
	SystemArticles int           `json:"system_articles"`
	Problems       int           `json:"problems"`
	Published      bool          `json:"published"`
}

// BuildListResponse wraps recent builds.
type BuildListResponse struct {
	Builds []BuildItem `json:"builds"`
}

// ReadyResponse reports the currently published index set.
type ReadyResponse struct {
	Status string `json:"status"`
	Hash   string `json:"hash,omitempty"`
}

func buildItem(b ledger.Build) BuildItem {
	return BuildItem{
		ID:             b.ID,
		StartedAt:      b.StartedAt,
		DurationMS:     b.DurationMS(),
		Status:         b.Status,
		Hash:           b.Hash,
		Subjects:       b.Subjects,
		Teachers:       b.Teachers,
		Articles:       b.Articles,
		SystemArticles: b.SystemArticles,
		Problems:       b.Problems,
		Published:      b.Published,
	}
}
