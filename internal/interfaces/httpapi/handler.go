package httpapi

import (
	"context"
	"net/http"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
)

type liveMatchBuilder interface {
	BuildSportsTree(ctx context.Context) ([]match.Sport, error)
}

type Handler struct {
	liveMatches liveMatchBuilder
	logger      *logging.Logger
}

func NewHandler(liveMatches liveMatchBuilder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		liveMatches: liveMatches,
		logger:      logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "Healthz", "/healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListLiveMatches returns the whole sports tree or nothing; a partial tree is
// never written.
func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListLiveMatches", "/api/live-matches")
	defer span.End()

	sports, err := h.liveMatches.BuildSportsTree(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "list live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if sports == nil {
		sports = []match.Sport{}
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(ctx, w, http.StatusOK, sports)
}
