//go:build testutil
// +build testutil

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/george-michael9/Abrar-system/internal/auth"
	"github.com/george-michael9/Abrar-system/internal/config"
	"github.com/george-michael9/Abrar-system/internal/crypto"
	"github.com/george-michael9/Abrar-system/internal/model"
	"github.com/george-michael9/Abrar-system/internal/repository"
	"github.com/george-michael9/Abrar-system/internal/testutil/testdb"
)

func TestEndpoints(t *testing.T) {
	ctx := context.Background()
	handle, err := testdb.Start(ctx)
	if err != nil {
		t.Fatalf("testdb start: %v", err)
	}
	defer handle.Close()

	store := repository.NewStore(handle.Pool)
	cfg := config.Config{
		JWTSecret:       "endpoint-test-secret",
		JWTIssuer:       "abrar-test",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		SessionTokenTTL: 30 * time.Minute,
	}
	router := NewServer(cfg, store, nil, zap.NewNop().Sugar()).Router()

	do := func(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			if err := json.NewEncoder(&buf).Encode(body); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	errCode := func(t *testing.T, rec *httptest.ResponseRecorder) string {
		t.Helper()
		var payload map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
		}
		return payload["error"]
	}
	mintToken := func(t *testing.T, userID string, role model.Role) string {
		t.Helper()
		token, err := auth.NewAccessToken(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, auth.Claims{
			UserID: userID,
			Role:   role,
		})
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		return token
	}

	now := time.Now().UTC()

	t.Run("login lifecycle", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/auth/register", "", map[string]string{
			"email":    "newcomer@example.org",
			"password": "pass1234",
			"fullName": "Newcomer",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("register: got %d body %s", rec.Code, rec.Body.String())
		}

		login := map[string]any{"email": "newcomer@example.org", "password": "pass1234"}
		rec = do(t, http.MethodPost, "/auth/login", "", login)
		if rec.Code != http.StatusForbidden || errCode(t, rec) != "account_pending" {
			t.Fatalf("pending login: got %d %s", rec.Code, rec.Body.String())
		}

		user, err := store.GetUserByEmail(ctx, "newcomer@example.org")
		if err != nil {
			t.Fatalf("GetUserByEmail: %v", err)
		}
		if err := store.ApproveUser(ctx, user.ID, model.RoleKhadem); err != nil {
			t.Fatalf("ApproveUser: %v", err)
		}

		rec = do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "newcomer@example.org", "password": "wrong"})
		if rec.Code != http.StatusUnauthorized || errCode(t, rec) != "invalid_credentials" {
			t.Fatalf("wrong password: got %d %s", rec.Code, rec.Body.String())
		}

		rec = do(t, http.MethodPost, "/auth/login", "", login)
		if rec.Code != http.StatusOK {
			t.Fatalf("approved login: got %d %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode login: %v", err)
		}
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Fatalf("expected both tokens, got %s", rec.Body.String())
		}
	})

	hash, err := crypto.HashPassword("amin-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	amin := model.User{
		ID: uuid.NewString(), Email: "amin@example.org", PasswordHash: hash,
		FullName: "Amin", Role: model.RoleAmin, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	if err := store.CreateUser(ctx, amin); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	aminToken := mintToken(t, amin.ID, model.RoleAmin)

	classA := model.Class{ID: uuid.NewString(), Name: "Class A", IsActive: true, CreatedAt: now, UpdatedAt: now}
	classB := model.Class{ID: uuid.NewString(), Name: "Class B", IsActive: true, CreatedAt: now, UpdatedAt: now}
	for _, class := range []model.Class{classA, classB} {
		if err := store.CreateClass(ctx, class); err != nil {
			t.Fatalf("CreateClass: %v", err)
		}
	}
	childA := model.Makhdoum{ID: uuid.NewString(), FullName: "Child A", ClassID: &classA.ID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	childB := model.Makhdoum{ID: uuid.NewString(), FullName: "Child B", ClassID: &classB.ID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	for _, child := range []*model.Makhdoum{&childA, &childB} {
		if err := store.CreateMakhdoum(ctx, child); err != nil {
			t.Fatalf("CreateMakhdoum: %v", err)
		}
	}

	t.Run("scan", func(t *testing.T) {
		event := model.Event{
			ID: uuid.NewString(), Name: "Mahragan", Type: model.EventActivity,
			StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour),
			Status: model.EventOngoing, CreatedAt: now, UpdatedAt: now,
		}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}

		rec := do(t, http.MethodPost, "/scan", aminToken, map[string]any{
			"payload": childA.Code + ":" + childA.ID,
			"eventId": event.ID,
			"score":   10,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("scan: got %d %s", rec.Code, rec.Body.String())
		}

		rec = do(t, http.MethodPost, "/scan", aminToken, map[string]any{
			"payload": "MKD-999999:" + uuid.NewString(),
			"eventId": event.ID,
			"score":   5,
		})
		if rec.Code != http.StatusNotFound || errCode(t, rec) != "makhdoum_not_found" {
			t.Fatalf("unknown badge: got %d %s", rec.Code, rec.Body.String())
		}

		rec = do(t, http.MethodPost, "/scan", aminToken, map[string]any{
			"payload": "MKD-999999:not-a-uuid",
			"eventId": event.ID,
			"score":   5,
		})
		if rec.Code != http.StatusNotFound || errCode(t, rec) != "makhdoum_not_found" {
			t.Fatalf("garbage id: got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("khadem scope on makhdoum records", func(t *testing.T) {
		khadem := model.User{
			ID: uuid.NewString(), Email: "khadem@example.org", PasswordHash: hash,
			FullName: "Khadem", Role: model.RoleKhadem, ClassID: &classA.ID,
			IsActive: true, CreatedAt: now, UpdatedAt: now,
		}
		if err := store.CreateUser(ctx, khadem); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		khademToken := mintToken(t, khadem.ID, model.RoleKhadem)

		if rec := do(t, http.MethodGet, "/makhdoumeen/"+childA.ID, khademToken, nil); rec.Code != http.StatusOK {
			t.Errorf("own class read: got %d %s", rec.Code, rec.Body.String())
		}
		if rec := do(t, http.MethodGet, "/makhdoumeen/"+childB.ID, khademToken, nil); rec.Code != http.StatusForbidden {
			t.Errorf("other class read: got %d, want 403", rec.Code)
		}
		if rec := do(t, http.MethodPatch, "/makhdoumeen/"+childB.ID, khademToken, map[string]string{"fullName": "Hijacked"}); rec.Code != http.StatusForbidden {
			t.Errorf("other class update: got %d, want 403", rec.Code)
		}
		if rec := do(t, http.MethodGet, "/makhdoumeen/"+childB.ID+"/qr", khademToken, nil); rec.Code != http.StatusForbidden {
			t.Errorf("other class qr: got %d, want 403", rec.Code)
		}
		if rec := do(t, http.MethodGet, "/makhdoumeen/"+childB.ID, aminToken, nil); rec.Code != http.StatusOK {
			t.Errorf("amin read any class: got %d %s", rec.Code, rec.Body.String())
		}
	})
}
