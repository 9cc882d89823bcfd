package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/ledger"
	"github.com/starford/syllabus/internal/logfields"
	"github.com/starford/syllabus/internal/publish"
)

const maxBuildsLimit = 200

// Handler holds route handlers.
type Handler struct {
	publicDir string
	prefix    string
	ledger    ledger.Ledger
	logger    *slog.Logger
}

// Live handles GET /health/live.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ReadyResponse{Status: "ok"})
}

// Ready handles GET /health/ready. The server is ready once an index set has
// been published.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	meta, err := publish.Current(h.publicDir, h.prefix)
	if err != nil {
		h.logger.Debug("not ready", logfields.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, ReadyResponse{Status: "ok", Hash: meta.Hash})
}

// ListBuilds handles GET /api/builds.
func (h *Handler) ListBuilds(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		writeJSON(w, http.StatusNotFound, errorBody("build ledger disabled"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > maxBuildsLimit {
		limit = maxBuildsLimit
	}
	builds, err := h.ledger.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("list builds failed", logfields.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	resp := BuildListResponse{Builds: make([]BuildItem, len(builds))}
	for i, b := range builds {
		resp.Builds[i] = buildItem(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBuild handles GET /api/builds/{id}.
func (h *Handler) GetBuild(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		writeJSON(w, http.StatusNotFound, errorBody("build ledger disabled"))
		return
	}
	b, err := h.ledger.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("build not found"))
		return
	}
	if err != nil {
		h.logger.Error("get build failed", logfields.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, buildItem(*b))
}
