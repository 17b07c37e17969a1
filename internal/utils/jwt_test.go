package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("super-secret", 42, "alice", 30)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token string")
	}
	if !tok.Exp.After(time.Now().UTC().Add(29 * time.Minute)) {
		t.Fatalf("expiry too close: %v", tok.Exp)
	}

	id, err := ParseAccessToken("super-secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if id.UserID != 42 || id.Username != "alice" {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("s", 7, "bob", -1)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	_, err = ParseAccessToken("s", tok.Token)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("right-secret", 7, "bob", 5)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	_, err = ParseAccessToken("wrong-secret", tok.Token)
	if err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestParseAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken("k", "not.a.jwt")
	if err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestParseAccessToken_MissingClaims(t *testing.T) {
	t.Parallel()

	// Sign a structurally valid token without sub/user_id claims.
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = ParseAccessToken("k", raw)
	if err != ErrTokenMissingClaims {
		t.Fatalf("expected ErrTokenMissingClaims, got %v", err)
	}
}
