package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/george-michael9/Abrar-system/internal/auth"
	"github.com/george-michael9/Abrar-system/internal/config"
	"github.com/george-michael9/Abrar-system/internal/model"
)

func testServer() *Server {
	cfg := config.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "abrar-test",
		AccessTokenTTL: time.Minute,
	}
	return NewServer(cfg, nil, nil, zap.NewNop().Sugar())
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"Bearer  spaced ", "spaced"},
	}
	for _, tc := range cases {
		if got := bearerToken(tc.header); got != tc.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestScoreValueUnmarshal(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`{"score": 10}`, 10},
		{`{"score": "25"}`, 25},
		{`{"score": "12.9"}`, 12},
		{`{"score": 3.7}`, 3},
		{`{"score": "abc"}`, 0},
		{`{"score": null}`, 0},
	}
	for _, tc := range cases {
		var body struct {
			Score scoreValue `json:"score"`
		}
		if err := json.Unmarshal([]byte(tc.raw), &body); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if int(body.Score) != tc.want {
			t.Errorf("score from %s = %d, want %d", tc.raw, body.Score, tc.want)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := testServer()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			t.Error("claims missing from context")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	handler := s.authMiddleware(next)

	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		UserID:   "u1",
		Role:     model.RoleKhadem,
		FullName: "Test Khadem",
	})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("valid token: got %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: got %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	s := testServer()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := s.requireRole(model.RoleAmin)(next)

	request := func(role model.Role) int {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		ctx := context.WithValue(req.Context(), claimsKey{}, &auth.Claims{UserID: "u1", Role: role})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		return rec.Code
	}

	if code := request(model.RoleKhadem); code != http.StatusForbidden {
		t.Errorf("khadem against amin gate: got %d, want 403", code)
	}
	if code := request(model.RoleAmin); code != http.StatusNoContent {
		t.Errorf("amin against amin gate: got %d, want 204", code)
	}
	if code := request(model.RoleAdmin); code != http.StatusNoContent {
		t.Errorf("admin against amin gate: got %d, want 204", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("no claims: got %d, want 403", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	if got := clientIP(req); got != "10.0.0.1" {
		t.Errorf("forwarded: got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.3")
	if got := clientIP(req); got != "10.0.0.3" {
		t.Errorf("real ip: got %q", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Summer Camp 2026": "summer-camp-2026",
		"  Mahragan  ":     "mahragan",
		"!!!":              "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
