package crypto

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, "secret"); err != nil {
		t.Fatalf("expected password to match")
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected password mismatch")
	}
}

func TestRefreshTokenHash(t *testing.T) {
	token, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if HashToken(token) == token {
		t.Fatalf("expected hash to differ from token")
	}
	if HashToken(token) != HashToken(token) {
		t.Fatalf("expected hash to be deterministic")
	}
	if len(HashToken(token)) != 64 {
		t.Fatalf("expected hex sha256 digest, got %q", HashToken(token))
	}
}
