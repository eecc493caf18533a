package service

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := hashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	if !verifyPassword("s3cret-pass", encoded) {
		t.Fatal("expected password to verify")
	}
	if verifyPassword("wrong-pass", encoded) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestVerifyPasswordRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
	}
	for _, encoded := range cases {
		if verifyPassword("anything", encoded) {
			t.Errorf("verifyPassword accepted malformed hash %q", encoded)
		}
	}
}

func TestTempPasswordLength(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		password, err := tempPassword()
		if err != nil {
			t.Fatalf("tempPassword: %v", err)
		}
		if len(password) != 8 {
			t.Fatalf("expected 8 hex characters, got %q", password)
		}
		seen[password] = true
	}
	if len(seen) < 2 {
		t.Fatal("temp passwords are not random")
	}
}
