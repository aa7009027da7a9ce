package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/george-michael9/Abrar-system/internal/auth"
	"github.com/george-michael9/Abrar-system/internal/cache"
	"github.com/george-michael9/Abrar-system/internal/config"
	"github.com/george-michael9/Abrar-system/internal/metrics"
	"github.com/george-michael9/Abrar-system/internal/model"
	"github.com/george-michael9/Abrar-system/internal/observability"
	"github.com/george-michael9/Abrar-system/internal/repository"
)

type Server struct {
	cfg       config.Config
	store     *repository.Store
	snapshots *cache.Leaderboard
	log       *zap.SugaredLogger
}

func NewServer(cfg config.Config, store *repository.Store, snapshots *cache.Leaderboard, log *zap.SugaredLogger) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		snapshots: snapshots,
		log:       log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := s.store.Pool().Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "db_unavailable")
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/refresh", s.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/me", s.handleGetMe)
		r.Patch("/auth/me", s.handlePatchMe)
		r.Post("/auth/me/password", s.handleChangePassword)

		r.Get("/statistics", s.handleStatistics)

		r.Route("/users", func(r chi.Router) {
			r.With(s.requireRole(model.RoleAmin)).Get("/", s.handleListUsers)
			r.With(s.requireRole(model.RoleAdmin)).Post("/", s.handleCreateUser)
			r.With(s.requireRole(model.RoleAmin)).Get("/{userID}", s.handleGetUser)
			r.With(s.requireRole(model.RoleAdmin)).Patch("/{userID}", s.handleUpdateUser)
			r.With(s.requireRole(model.RoleAdmin)).Delete("/{userID}", s.handleDeleteUser)
			r.With(s.requireRole(model.RoleAdmin)).Post("/{userID}/approve", s.handleApproveUser)
		})

		r.Route("/classes", func(r chi.Router) {
			r.Get("/", s.handleListClasses)
			r.With(s.requireRole(model.RoleAmin)).Post("/", s.handleCreateClass)
			r.Get("/{classID}", s.handleGetClass)
			r.With(s.requireRole(model.RoleAmin)).Patch("/{classID}", s.handleUpdateClass)
			r.With(s.requireRole(model.RoleAdmin)).Delete("/{classID}", s.handleDeleteClass)
		})

		r.Route("/makhdoumeen", func(r chi.Router) {
			r.Get("/", s.handleListMakhdoumeen)
			r.Get("/export", s.handleExportRoster)
			r.Post("/", s.handleCreateMakhdoum)
			r.Get("/{makhdoumID}", s.handleGetMakhdoum)
			r.Patch("/{makhdoumID}", s.handleUpdateMakhdoum)
			r.With(s.requireRole(model.RoleAmin)).Delete("/{makhdoumID}", s.handleDeactivateMakhdoum)
			r.Get("/{makhdoumID}/qr", s.handleMakhdoumQR)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handleListEvents)
			r.With(s.requireRole(model.RoleAmin)).Post("/", s.handleCreateEvent)
			r.Get("/{eventID}", s.handleGetEvent)
			r.With(s.requireRole(model.RoleAmin)).Patch("/{eventID}", s.handleUpdateEvent)
			r.With(s.requireRole(model.RoleAdmin)).Delete("/{eventID}", s.handleDeleteEvent)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", s.handleListTeams)
			r.With(s.requireRole(model.RoleAdmin)).Post("/", s.handleCreateTeam)
			r.Get("/{teamID}", s.handleGetTeam)
			r.With(s.requireRole(model.RoleAdmin)).Patch("/{teamID}", s.handleUpdateTeam)
			r.With(s.requireRole(model.RoleAdmin)).Delete("/{teamID}", s.handleDeleteTeam)
			r.With(s.requireRole(model.RoleAmin)).Post("/{teamID}/classes/{classID}", s.handleAssignClass)
			r.With(s.requireRole(model.RoleAmin)).Delete("/classes/{classID}", s.handleUnassignClass)
		})

		r.Post("/scan", s.handleScan)

		r.Get("/leaderboard/{eventID}", s.handleLeaderboard)
		r.With(s.requireRole(model.RoleAmin)).Get("/leaderboard/{eventID}/export", s.handleLeaderboardExport)
	})

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(required model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil || !claims.Role.AtLeast(required) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// Helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// serverError answers 500 and reports the cause; the process stays up and
// the client keeps its last known state.
func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Errorw("request failed", "err", err)
	observability.CaptureErr(err)
	metrics.HandlerErrors.Inc()
	writeError(w, http.StatusInternalServerError, "server_error")
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return ""
}

// scoreValue tolerates the loose typing of scanned score fields: JSON
// numbers and numeric strings are accepted, anything else counts as zero.
type scoreValue int

func (v *scoreValue) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if n, err := strconv.Atoi(raw); err == nil {
		*v = scoreValue(n)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*v = scoreValue(int(f))
		return nil
	}
	*v = 0
	return nil
}
