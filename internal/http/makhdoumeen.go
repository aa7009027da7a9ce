package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/george-michael9/Abrar-system/internal/export"
	"github.com/george-michael9/Abrar-system/internal/model"
	"github.com/george-michael9/Abrar-system/internal/qr"
)

type makhdoumPayload struct {
	ID                string  `json:"id"`
	Code              string  `json:"code"`
	FullName          string  `json:"fullName"`
	DateOfBirth       *string `json:"dateOfBirth"`
	ClassID           *string `json:"classId"`
	MotherName        *string `json:"motherName"`
	MotherPhone       *string `json:"motherPhone"`
	FatherName        *string `json:"fatherName"`
	FatherPhone       *string `json:"fatherPhone"`
	EmergencyContact  *string `json:"emergencyContact"`
	Address           *string `json:"address"`
	Area              *string `json:"area"`
	DiseasesAllergies *string `json:"diseasesAllergies"`
	Medications       *string `json:"medications"`
	SpecialNeeds      *string `json:"specialNeeds"`
	IsActive          bool    `json:"isActive"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

func mapMakhdoum(m model.Makhdoum) makhdoumPayload {
	var dob *string
	if m.DateOfBirth != nil {
		formatted := m.DateOfBirth.UTC().Format("2006-01-02")
		dob = &formatted
	}
	return makhdoumPayload{
		ID:                m.ID,
		Code:              m.Code,
		FullName:          m.FullName,
		DateOfBirth:       dob,
		ClassID:           m.ClassID,
		MotherName:        m.MotherName,
		MotherPhone:       m.MotherPhone,
		FatherName:        m.FatherName,
		FatherPhone:       m.FatherPhone,
		EmergencyContact:  m.EmergencyContact,
		Address:           m.Address,
		Area:              m.Area,
		DiseasesAllergies: m.DiseasesAllergies,
		Medications:       m.Medications,
		SpecialNeeds:      m.SpecialNeeds,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListMakhdoumeen lists children, optionally filtered by class.
// Khadems only see the classes they serve.
func (s *Server) handleListMakhdoumeen(w http.ResponseWriter, r *http.Request) {
	classID := strings.TrimSpace(r.URL.Query().Get("classId"))
	activeOnly := r.URL.Query().Get("includeInactive") != "true"

	makhdoumeen, ok := s.scopedMakhdoumeen(w, r, classID, activeOnly)
	if !ok {
		return
	}
	payload := make([]makhdoumPayload, 0, len(makhdoumeen))
	for _, m := range makhdoumeen {
		payload = append(payload, mapMakhdoum(m))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) scopedMakhdoumeen(w http.ResponseWriter, r *http.Request, classID string, activeOnly bool) ([]model.Makhdoum, bool) {
	claims := claimsFromContext(r.Context())
	if claims.Role.AtLeast(model.RoleAmin) {
		makhdoumeen, err := s.store.ListMakhdoumeen(r.Context(), classID, activeOnly)
		if err != nil {
			s.serverError(w, err)
			return nil, false
		}
		return makhdoumeen, true
	}

	classes, err := s.store.ListClassesByKhadem(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, err)
		return nil, false
	}
	if classID != "" {
		allowed := false
		for _, class := range classes {
			if class.ID == classID {
				allowed = true
				break
			}
		}
		if !allowed {
			writeError(w, http.StatusForbidden, "forbidden")
			return nil, false
		}
		makhdoumeen, err := s.store.ListMakhdoumeen(r.Context(), classID, activeOnly)
		if err != nil {
			s.serverError(w, err)
			return nil, false
		}
		return makhdoumeen, true
	}

	var makhdoumeen []model.Makhdoum
	for _, class := range classes {
		batch, err := s.store.ListMakhdoumeen(r.Context(), class.ID, activeOnly)
		if err != nil {
			s.serverError(w, err)
			return nil, false
		}
		makhdoumeen = append(makhdoumeen, batch...)
	}
	return makhdoumeen, true
}

// authorizeMakhdoum gates single-record access the same way the list is
// scoped: amin and above reach every child, a khadem only the classes
// they serve.
func (s *Server) authorizeMakhdoum(w http.ResponseWriter, r *http.Request, makhdoum model.Makhdoum) bool {
	claims := claimsFromContext(r.Context())
	if claims.Role.AtLeast(model.RoleAmin) {
		return true
	}
	if makhdoum.ClassID == nil {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}
	classes, err := s.store.ListClassesByKhadem(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, err)
		return false
	}
	for _, class := range classes {
		if class.ID == *makhdoum.ClassID {
			return true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden")
	return false
}

type makhdoumRequest struct {
	FullName          *string `json:"fullName"`
	DateOfBirth       *string `json:"dateOfBirth"`
	ClassID           *string `json:"classId"`
	MotherName        *string `json:"motherName"`
	MotherPhone       *string `json:"motherPhone"`
	FatherName        *string `json:"fatherName"`
	FatherPhone       *string `json:"fatherPhone"`
	EmergencyContact  *string `json:"emergencyContact"`
	Address           *string `json:"address"`
	Area              *string `json:"area"`
	DiseasesAllergies *string `json:"diseasesAllergies"`
	Medications       *string `json:"medications"`
	SpecialNeeds      *string `json:"specialNeeds"`
	IsActive          *bool   `json:"isActive"`
}

func (s *Server) handleCreateMakhdoum(w http.ResponseWriter, r *http.Request) {
	var req makhdoumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.FullName == nil || strings.TrimSpace(*req.FullName) == "" {
		writeError(w, http.StatusBadRequest, "missing_name")
		return
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date_of_birth")
		return
	}

	now := time.Now().UTC()
	makhdoum := model.Makhdoum{
		ID:                uuid.NewString(),
		FullName:          strings.TrimSpace(*req.FullName),
		DateOfBirth:       dob,
		ClassID:           normalizeOptional(req.ClassID),
		MotherName:        req.MotherName,
		MotherPhone:       req.MotherPhone,
		FatherName:        req.FatherName,
		FatherPhone:       req.FatherPhone,
		EmergencyContact:  req.EmergencyContact,
		Address:           req.Address,
		Area:              req.Area,
		DiseasesAllergies: req.DiseasesAllergies,
		Medications:       req.Medications,
		SpecialNeeds:      req.SpecialNeeds,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateMakhdoum(r.Context(), &makhdoum); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapMakhdoum(makhdoum))
}

func (s *Server) handleGetMakhdoum(w http.ResponseWriter, r *http.Request) {
	makhdoum, err := s.store.GetMakhdoumByID(r.Context(), chi.URLParam(r, "makhdoumID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "makhdoum_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	if !s.authorizeMakhdoum(w, r, makhdoum) {
		return
	}
	writeJSON(w, http.StatusOK, mapMakhdoum(makhdoum))
}

func (s *Server) handleUpdateMakhdoum(w http.ResponseWriter, r *http.Request) {
	var req makhdoumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	makhdoum, err := s.store.GetMakhdoumByID(r.Context(), chi.URLParam(r, "makhdoumID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "makhdoum_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	if !s.authorizeMakhdoum(w, r, makhdoum) {
		return
	}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		makhdoum.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.DateOfBirth != nil {
		dob, err := parseDateOfBirth(req.DateOfBirth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_of_birth")
			return
		}
		makhdoum.DateOfBirth = dob
	}
	if req.ClassID != nil {
		makhdoum.ClassID = normalizeOptional(req.ClassID)
	}
	if req.MotherName != nil {
		makhdoum.MotherName = req.MotherName
	}
	if req.MotherPhone != nil {
		makhdoum.MotherPhone = req.MotherPhone
	}
	if req.FatherName != nil {
		makhdoum.FatherName = req.FatherName
	}
	if req.FatherPhone != nil {
		makhdoum.FatherPhone = req.FatherPhone
	}
	if req.EmergencyContact != nil {
		makhdoum.EmergencyContact = req.EmergencyContact
	}
	if req.Address != nil {
		makhdoum.Address = req.Address
	}
	if req.Area != nil {
		makhdoum.Area = req.Area
	}
	if req.DiseasesAllergies != nil {
		makhdoum.DiseasesAllergies = req.DiseasesAllergies
	}
	if req.Medications != nil {
		makhdoum.Medications = req.Medications
	}
	if req.SpecialNeeds != nil {
		makhdoum.SpecialNeeds = req.SpecialNeeds
	}
	if req.IsActive != nil {
		makhdoum.IsActive = *req.IsActive
	}

	if err := s.store.UpdateMakhdoum(r.Context(), makhdoum); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMakhdoum(makhdoum))
}

// handleDeactivateMakhdoum soft deletes: the child keeps the code and the
// score history, only the active flag drops.
func (s *Server) handleDeactivateMakhdoum(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeactivateMakhdoum(r.Context(), chi.URLParam(r, "makhdoumID")); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (s *Server) handleMakhdoumQR(w http.ResponseWriter, r *http.Request) {
	makhdoum, err := s.store.GetMakhdoumByID(r.Context(), chi.URLParam(r, "makhdoumID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "makhdoum_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	if !s.authorizeMakhdoum(w, r, makhdoum) {
		return
	}

	size := 256
	if raw := r.URL.Query().Get("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}

	png, err := qr.PNG(qr.Encode(makhdoum.Code, makhdoum.ID), size)
	if err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", makhdoum.Code+".png"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleExportRoster(w http.ResponseWriter, r *http.Request) {
	classID := strings.TrimSpace(r.URL.Query().Get("classId"))
	makhdoumeen, ok := s.scopedMakhdoumeen(w, r, classID, true)
	if !ok {
		return
	}
	classes, err := s.store.ListClasses(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	workbook, err := export.RosterWorkbook(makhdoumeen, classes)
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeWorkbook(w, "roster.xlsx", workbook)
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseDateOfBirth(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func normalizeOptional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
