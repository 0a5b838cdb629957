package security_test

import (
	"strings"
	"testing"

	"github.com/wekesa360/todohub/internal/security"
)

func TestHashAndVerifyRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("Passw0rd!")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if hash == "Passw0rd!" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a self-describing bcrypt hash, got %q", hash)
	}

	if !security.VerifyPassword(hash, "Passw0rd!") {
		t.Error("correct password should verify")
	}

	if security.VerifyPassword(hash, "passw0rd!") {
		t.Error("wrong password must not verify")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := security.HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	h2, err := security.HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestVerifyMalformedHashFailsClosed(t *testing.T) {
	for _, stored := range []string{"", "not-a-hash", "$2b$broken"} {
		if security.VerifyPassword(stored, "anything") {
			t.Errorf("malformed stored hash %q must not verify", stored)
		}
	}
}
