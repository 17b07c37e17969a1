package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !VerifyPassword(hash, "pw1") {
		t.Fatal("verify failed for correct password")
	}
	if VerifyPassword(hash, "pw2") {
		t.Fatal("verify succeeded for wrong password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	// A corrupted stored blob must fail closed, not panic.
	if VerifyPassword("not-a-bcrypt-blob", "pw1") {
		t.Fatal("verify succeeded for malformed hash")
	}
	if VerifyPassword("", "pw1") {
		t.Fatal("verify succeeded for empty hash")
	}
}
