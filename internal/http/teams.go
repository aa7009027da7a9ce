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

type teamPayload struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Motto        string   `json:"motto"`
	Icon         string   `json:"icon"`
	PrimaryColor string   `json:"primaryColor"`
	ClassIDs     []string `json:"classIds"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

func mapTeam(team model.Team) teamPayload {
	classIDs := team.ClassIDs
	if classIDs == nil {
		classIDs = []string{}
	}
	return teamPayload{
		ID:           team.ID,
		Name:         team.Name,
		Motto:        team.Motto,
		Icon:         team.Icon,
		PrimaryColor: team.PrimaryColor,
		ClassIDs:     classIDs,
		CreatedAt:    team.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    team.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	payload := make([]teamPayload, 0, len(teams))
	for _, team := range teams {
		payload = append(payload, mapTeam(team))
	}
	writeJSON(w, http.StatusOK, payload)
}

type teamRequest struct {
	Name         *string  `json:"name"`
	Motto        *string  `json:"motto"`
	Icon         *string  `json:"icon"`
	PrimaryColor *string  `json:"primaryColor"`
	ClassIDs     []string `json:"classIds"`
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "missing_name")
		return
	}

	now := time.Now().UTC()
	team := model.Team{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(*req.Name),
		ClassIDs:  req.ClassIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Motto != nil {
		team.Motto = *req.Motto
	}
	if req.Icon != nil {
		team.Icon = *req.Icon
	}
	if req.PrimaryColor != nil {
		team.PrimaryColor = *req.PrimaryColor
	}

	if err := s.store.CreateTeam(r.Context(), team); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapTeam(team))
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.store.GetTeamByID(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "team_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapTeam(team))
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	team, err := s.store.GetTeamByID(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "team_not_found")
			return
		}
		s.serverError(w, err)
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		team.Name = strings.TrimSpace(*req.Name)
	}
	if req.Motto != nil {
		team.Motto = *req.Motto
	}
	if req.Icon != nil {
		team.Icon = *req.Icon
	}
	if req.PrimaryColor != nil {
		team.PrimaryColor = *req.PrimaryColor
	}

	if err := s.store.UpdateTeam(r.Context(), team); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapTeam(team))
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTeam(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAssignClass moves the class to this team. A class can belong to
// one team at a time, so any previous membership is dropped in the same
// transaction.
func (s *Server) handleAssignClass(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	classID := chi.URLParam(r, "classID")

	if _, err := s.store.GetTeamByID(r.Context(), teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "team_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	if _, err := s.store.GetClassByID(r.Context(), classID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "class_not_found")
			return
		}
		s.serverError(w, err)
		return
	}

	if err := s.store.AssignClassToTeam(r.Context(), teamID, classID); err != nil {
		s.serverError(w, err)
		return
	}
	team, err := s.store.GetTeamByID(r.Context(), teamID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapTeam(team))
}

func (s *Server) handleUnassignClass(w http.ResponseWriter, r *http.Request) {
	if err := s.store.UnassignClass(r.Context(), chi.URLParam(r, "classID")); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unassigned"})
}
