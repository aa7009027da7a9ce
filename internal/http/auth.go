package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/george-michael9/Abrar-system/internal/auth"
	"github.com/george-michael9/Abrar-system/internal/crypto"
	"github.com/george-michael9/Abrar-system/internal/model"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Remember selects a durable session; without it the refresh token
	// expires on the short tab-scoped TTL.
	Remember bool `json:"remember"`
}

type authResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         userSummary `json:"user"`
}

type userSummary struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	Role        model.Role `json:"role"`
	Phone       *string    `json:"phone,omitempty"`
	PhotoURL    *string    `json:"photoUrl,omitempty"`
	ClassID     *string    `json:"classId,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func mapUserSummary(user model.User) userSummary {
	return userSummary{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		Phone:       user.Phone,
		PhotoURL:    user.PhotoURL,
		ClassID:     user.ClassID,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// handleRegister creates a pending account. New accounts cannot sign in
// until an admin approves them into a role.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	if _, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusConflict, "email_taken")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		s.serverError(w, err)
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.serverError(w, err)
		return
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         model.RolePending,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.serverError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"status":  "pending",
		"message": "Account created! Please wait for admin approval.",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		s.serverError(w, err)
		return
	}

	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusForbidden, "account_disabled")
		return
	}
	if !user.Role.CanLogin() {
		writeError(w, http.StatusForbidden, "account_pending")
		return
	}

	now := time.Now().UTC()
	if err := s.store.TouchLastLogin(r.Context(), user.ID, now); err != nil {
		s.serverError(w, err)
		return
	}
	user.LastLoginAt = &now

	accessToken, refreshToken, err := s.issueTokens(r, user, req.Remember)
	if err != nil {
		s.serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapUserSummary(user),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "missing_refresh_token")
		return
	}

	session, err := s.store.GetRefreshSession(r.Context(), crypto.HashToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "invalid_refresh_token")
			return
		}
		s.serverError(w, err)
		return
	}
	if session.RevokedAt != nil || session.ExpiresAt.Before(time.Now().UTC()) {
		writeError(w, http.StatusUnauthorized, "refresh_token_expired")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "user_not_found")
		return
	}
	if !user.IsActive || !user.Role.CanLogin() {
		writeError(w, http.StatusForbidden, "account_disabled")
		return
	}

	if err := s.store.RevokeRefreshSession(r.Context(), session.ID, time.Now().UTC()); err != nil {
		s.serverError(w, err)
		return
	}

	// Renew with the original session's horizon: rotation keeps the
	// durable/tab-scoped choice made at login.
	remember := session.ExpiresAt.Sub(session.CreatedAt) > s.cfg.SessionTokenTTL
	accessToken, refreshToken, err := s.issueTokens(r, user, remember)
	if err != nil {
		s.serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapUserSummary(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	_ = s.store.RevokeRefreshSessionsByUser(r.Context(), claims.UserID, time.Now().UTC())
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUserSummary(user))
}

type patchMeRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	PhotoURL *string `json:"photoUrl"`
}

func (s *Server) handlePatchMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	var req patchMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.PhotoURL != nil {
		user.PhotoURL = req.PhotoURL
	}
	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUserSummary(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "missing_password")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if err := crypto.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if err := s.store.UpdateUserPassword(r.Context(), user.ID, hash); err != nil {
		s.serverError(w, err)
		return
	}
	// Password change invalidates every open session.
	_ = s.store.RevokeRefreshSessionsByUser(r.Context(), user.ID, time.Now().UTC())
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) issueTokens(r *http.Request, user model.User, remember bool) (string, string, error) {
	accessToken, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		UserID:   user.ID,
		Role:     user.Role,
		FullName: user.FullName,
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err := crypto.NewRefreshToken()
	if err != nil {
		return "", "", err
	}

	ttl := s.cfg.SessionTokenTTL
	if remember {
		ttl = s.cfg.RefreshTokenTTL
	}
	now := time.Now().UTC()
	session := model.RefreshSession{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: crypto.HashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if ua := r.UserAgent(); ua != "" {
		session.UserAgent = &ua
	}
	if ip := clientIP(r); ip != "" {
		session.IPAddress = &ip
	}
	if err := s.store.CreateRefreshSession(r.Context(), session); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
