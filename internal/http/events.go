package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/george-michael9/Abrar-system/internal/model"
)

type eventPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	StartAt     string `json:"startAt"`
	EndAt       string `json:"endAt"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func mapEvent(event model.Event) eventPayload {
	return eventPayload{
		ID:          event.ID,
		Name:        event.Name,
		Type:        string(event.Type),
		Description: event.Description,
		StartAt:     event.StartAt.UTC().Format(time.RFC3339),
		EndAt:       event.EndAt.UTC().Format(time.RFC3339),
		Location:    event.Location,
		Status:      string(event.Status),
		CreatedAt:   event.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   event.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	var statuses []model.EventStatus
	for _, raw := range r.URL.Query()["status"] {
		status := model.EventStatus(strings.TrimSpace(raw))
		if !isValidEventStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		statuses = append(statuses, status)
	}

	events, err := s.store.ListEvents(r.Context(), statuses...)
	if err != nil {
		s.serverError(w, err)
		return
	}
	payload := make([]eventPayload, 0, len(events))
	for _, event := range events {
		payload = append(payload, mapEvent(event))
	}
	writeJSON(w, http.StatusOK, payload)
}

type eventRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	StartAt     *string `json:"startAt"`
	EndAt       *string `json:"endAt"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "missing_name")
		return
	}

	eventType := model.EventActivity
	if req.Type != nil {
		eventType = model.EventType(*req.Type)
		if !isValidEventType(eventType) {
			writeError(w, http.StatusBadRequest, "invalid_type")
			return
		}
	}

	startAt, endAt, err := parseEventWindow(req.StartAt, req.EndAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_schedule")
		return
	}

	status := model.EventDraft
	if req.Status != nil {
		status = model.EventStatus(*req.Status)
		if !isValidEventStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
	}

	now := time.Now().UTC()
	event := model.Event{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(*req.Name),
		Type:      eventType,
		StartAt:   startAt,
		EndAt:     endAt,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}

	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapEvent(event))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEventByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapEvent(event))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	event, err := s.store.GetEventByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return
		}
		s.serverError(w, err)
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		event.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		eventType := model.EventType(*req.Type)
		if !isValidEventType(eventType) {
			writeError(w, http.StatusBadRequest, "invalid_type")
			return
		}
		event.Type = eventType
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartAt != nil || req.EndAt != nil {
		start := event.StartAt.UTC().Format(time.RFC3339)
		end := event.EndAt.UTC().Format(time.RFC3339)
		if req.StartAt != nil {
			start = *req.StartAt
		}
		if req.EndAt != nil {
			end = *req.EndAt
		}
		startAt, endAt, err := parseEventWindow(&start, &end)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_schedule")
			return
		}
		event.StartAt = startAt
		event.EndAt = endAt
	}
	if req.Status != nil {
		status := model.EventStatus(*req.Status)
		if !isValidEventStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		event.Status = status
	}

	if err := s.store.UpdateEvent(r.Context(), event); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapEvent(event))
}

// handleDeleteEvent removes draft and cancelled events only. Events that
// ran, or are running, stay so their score history keeps a referent.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEventByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	if event.Status != model.EventDraft && event.Status != model.EventCancelled {
		writeError(w, http.StatusConflict, "event_not_deletable")
		return
	}
	if err := s.store.DeleteEvent(r.Context(), event.ID); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func parseEventWindow(startRaw, endRaw *string) (time.Time, time.Time, error) {
	if startRaw == nil || endRaw == nil {
		return time.Time{}, time.Time{}, errors.New("start and end required")
	}
	startAt, err := time.Parse(time.RFC3339, strings.TrimSpace(*startRaw))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endAt, err := time.Parse(time.RFC3339, strings.TrimSpace(*endRaw))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !endAt.After(startAt) {
		return time.Time{}, time.Time{}, errors.New("end before start")
	}
	return startAt.UTC(), endAt.UTC(), nil
}

func isValidEventStatus(status model.EventStatus) bool {
	switch status {
	case model.EventDraft, model.EventUpcoming, model.EventOngoing, model.EventCompleted, model.EventCancelled:
		return true
	default:
		return false
	}
}

func isValidEventType(eventType model.EventType) bool {
	switch eventType {
	case model.EventService, model.EventCamp, model.EventActivity:
		return true
	default:
		return false
	}
}
