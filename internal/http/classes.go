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

type classPayload struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ScheduleDay  string   `json:"scheduleDay"`
	ScheduleTime string   `json:"scheduleTime"`
	Location     string   `json:"location"`
	AgeGroup     string   `json:"ageGroup"`
	KhademIDs    []string `json:"khademIds"`
	IsActive     bool     `json:"isActive"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

func mapClass(class model.Class) classPayload {
	khadems := class.KhademIDs
	if khadems == nil {
		khadems = []string{}
	}
	return classPayload{
		ID:           class.ID,
		Name:         class.Name,
		Description:  class.Description,
		ScheduleDay:  class.ScheduleDay,
		ScheduleTime: class.ScheduleTime,
		Location:     class.Location,
		AgeGroup:     class.AgeGroup,
		KhademIDs:    khadems,
		IsActive:     class.IsActive,
		CreatedAt:    class.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    class.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListClasses scopes khadems to the classes they serve; amins and
// admins see everything.
func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var (
		classes []model.Class
		err     error
	)
	if claims.Role.AtLeast(model.RoleAmin) {
		classes, err = s.store.ListClasses(r.Context())
	} else {
		classes, err = s.store.ListClassesByKhadem(r.Context(), claims.UserID)
	}
	if err != nil {
		s.serverError(w, err)
		return
	}

	payload := make([]classPayload, 0, len(classes))
	for _, class := range classes {
		payload = append(payload, mapClass(class))
	}
	writeJSON(w, http.StatusOK, payload)
}

type classRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	ScheduleDay  *string  `json:"scheduleDay"`
	ScheduleTime *string  `json:"scheduleTime"`
	Location     *string  `json:"location"`
	AgeGroup     *string  `json:"ageGroup"`
	KhademIDs    []string `json:"khademIds"`
	IsActive     *bool    `json:"isActive"`
}

func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "missing_name")
		return
	}

	now := time.Now().UTC()
	class := model.Class{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(*req.Name),
		KhademIDs: req.KhademIDs,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != nil {
		class.Description = *req.Description
	}
	if req.ScheduleDay != nil {
		class.ScheduleDay = *req.ScheduleDay
	}
	if req.ScheduleTime != nil {
		class.ScheduleTime = *req.ScheduleTime
	}
	if req.Location != nil {
		class.Location = *req.Location
	}
	if req.AgeGroup != nil {
		class.AgeGroup = *req.AgeGroup
	}
	if req.IsActive != nil {
		class.IsActive = *req.IsActive
	}

	if err := s.store.CreateClass(r.Context(), class); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapClass(class))
}

func (s *Server) handleGetClass(w http.ResponseWriter, r *http.Request) {
	class, err := s.store.GetClassByID(r.Context(), chi.URLParam(r, "classID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "class_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapClass(class))
}

func (s *Server) handleUpdateClass(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	class, err := s.store.GetClassByID(r.Context(), chi.URLParam(r, "classID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "class_not_found")
			return
		}
		s.serverError(w, err)
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		class.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		class.Description = *req.Description
	}
	if req.ScheduleDay != nil {
		class.ScheduleDay = *req.ScheduleDay
	}
	if req.ScheduleTime != nil {
		class.ScheduleTime = *req.ScheduleTime
	}
	if req.Location != nil {
		class.Location = *req.Location
	}
	if req.AgeGroup != nil {
		class.AgeGroup = *req.AgeGroup
	}
	if req.KhademIDs != nil {
		class.KhademIDs = req.KhademIDs
	}
	if req.IsActive != nil {
		class.IsActive = *req.IsActive
	}

	if err := s.store.UpdateClass(r.Context(), class); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapClass(class))
}

func (s *Server) handleDeleteClass(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteClass(r.Context(), chi.URLParam(r, "classID")); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
