package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/george-michael9/Abrar-system/internal/metrics"
	"github.com/george-michael9/Abrar-system/internal/model"
	"github.com/george-michael9/Abrar-system/internal/qr"
)

type scanRequest struct {
	Payload string     `json:"payload"`
	EventID string     `json:"eventId"`
	Score   scoreValue `json:"score"`
}

type scanResponse struct {
	MakhdoumID string `json:"makhdoumId"`
	FullName   string `json:"fullName"`
	Code       string `json:"code"`
	EventID    string `json:"eventId"`
	Score      int    `json:"score"`
	EnteredAt  string `json:"enteredAt"`
}

// handleScan records one scanned badge as an append-only score entry.
// The payload carries both the printed code and the child id; the id is
// authoritative, the code is a fallback for older badges.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if strings.TrimSpace(req.EventID) == "" {
		writeError(w, http.StatusBadRequest, "missing_event")
		return
	}

	makhdoumID, err := qr.Decode(req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	makhdoum, err := s.store.GetMakhdoumByID(r.Context(), makhdoumID)
	if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
		// Older badges carry only the printed code before the colon.
		code, _, _ := strings.Cut(strings.TrimSpace(req.Payload), ":")
		makhdoum, err = s.store.GetMakhdoumByCode(r.Context(), strings.TrimSpace(code))
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "makhdoum_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	if !makhdoum.IsActive {
		writeError(w, http.StatusConflict, "makhdoum_inactive")
		return
	}

	event, err := s.store.GetEventByID(r.Context(), strings.TrimSpace(req.EventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	if event.Status == model.EventCancelled {
		writeError(w, http.StatusConflict, "event_cancelled")
		return
	}

	claims := claimsFromContext(r.Context())
	score := model.Score{
		ID:         uuid.NewString(),
		EventID:    event.ID,
		MakhdoumID: makhdoum.ID,
		Score:      int(req.Score),
		EnteredBy:  claims.UserID,
		EnteredAt:  time.Now().UTC(),
	}
	if err := s.store.AddScore(r.Context(), score); err != nil {
		s.serverError(w, err)
		return
	}
	metrics.ScansRecorded.Inc()

	writeJSON(w, http.StatusCreated, scanResponse{
		MakhdoumID: makhdoum.ID,
		FullName:   makhdoum.FullName,
		Code:       makhdoum.Code,
		EventID:    event.ID,
		Score:      score.Score,
		EnteredAt:  score.EnteredAt.Format(time.RFC3339),
	})
}

// isInvalidID reports a payload id that postgres cannot even parse as a
// uuid (error 22P02); scanned garbage is a lookup miss, not a server fault.
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
