package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/george-michael9/Abrar-system/internal/cache"
	"github.com/george-michael9/Abrar-system/internal/export"
	"github.com/george-michael9/Abrar-system/internal/jobs"
	"github.com/george-michael9/Abrar-system/internal/scoring"
)

// handleLeaderboard serves the standings for one event. With redis
// configured this is cache-aside against the snapshots the refresh job
// keeps warm; otherwise every request aggregates from the database.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	result, _, ok := s.leaderboardFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLeaderboardExport(w http.ResponseWriter, r *http.Request) {
	result, eventName, ok := s.leaderboardFor(w, r)
	if !ok {
		return
	}
	workbook, err := export.LeaderboardWorkbook(result)
	if err != nil {
		s.serverError(w, err)
		return
	}
	filename := "leaderboard.xlsx"
	if slug := slugify(eventName); slug != "" {
		filename = "leaderboard-" + slug + ".xlsx"
	}
	writeWorkbook(w, filename, workbook)
}

func (s *Server) leaderboardFor(w http.ResponseWriter, r *http.Request) (scoring.Result, string, bool) {
	eventID := strings.TrimSpace(chi.URLParam(r, "eventID"))

	event, err := s.store.GetEventByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return scoring.Result{}, "", false
		}
		s.serverError(w, err)
		return scoring.Result{}, "", false
	}

	if s.snapshots.Enabled() {
		if cached, err := s.snapshots.Get(r.Context(), event.ID); err == nil {
			return cached, event.Name, true
		} else if !errors.Is(err, cache.ErrMiss) {
			s.log.Warnw("leaderboard cache read failed", "err", err)
		}
	}

	input, err := jobs.LoadAggregationInput(r.Context(), s.store)
	if err != nil {
		s.serverError(w, err)
		return scoring.Result{}, "", false
	}
	result := scoring.Aggregate(event.ID, input)

	if s.snapshots.Enabled() {
		if err := s.snapshots.Set(r.Context(), event.ID, result); err != nil {
			s.log.Warnw("leaderboard cache write failed", "err", err)
		}
	}
	return result, event.Name, true
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
