package server

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/starford/syllabus/internal/ledger"
	"github.com/starford/syllabus/internal/metrics"
	"github.com/starford/syllabus/internal/publish"
)

var publishedIndexRe = regexp.MustCompile(`/index-[a-z]+-[0-9a-f]{64}\.json$`)

// Config wires the router.
type Config struct {
	// PublicDir is the static-asset root served at /.
	PublicDir string
	// Prefix is the publish sub-directory holding meta.json.
	Prefix string
	// Ledger backs /api/builds; nil disables it.
	Ledger ledger.Ledger
	// Registry backs /metrics; nil disables it.
	Registry *prom.Registry
	// Events streams build events at /api/events; nil disables it.
	Events http.Handler

	AuthEnabled bool
	AuthToken   string
	Logger      *slog.Logger
}

// NewRouter creates a chi router serving the public directory and the
// health, metrics, build-history and build-event endpoints.
func NewRouter(cfg Config) chi.Router {
	if cfg.Prefix == "" {
		cfg.Prefix = publish.DefaultPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	h := &Handler{publicDir: cfg.PublicDir, prefix: cfg.Prefix, ledger: cfg.Ledger, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)

	if cfg.Registry != nil {
		r.Handle("/metrics", metrics.Handler(cfg.Registry))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.AuthToken))
		r.Get("/builds", h.ListBuilds)
		r.Get("/builds/{id}", h.GetBuild)
		if cfg.Events != nil {
			r.Get("/events", cfg.Events.ServeHTTP)
		}
	})

	static := http.FileServer(http.Dir(cfg.PublicDir))
	r.With(cacheControl).Handle("/*", static)

	return r
}
