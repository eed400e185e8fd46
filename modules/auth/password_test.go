package auth

import (
	"strings"
	"testing"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Fatal("Hash() returned empty hash")
	}
	if hash == "correct horse battery staple" {
		t.Error("Hash() returned the plaintext password")
	}

	if !hasher.Verify("correct horse battery staple", hash) {
		t.Error("Verify() = false for the correct password")
	}
	if hasher.Verify("wrong password", hash) {
		t.Error("Verify() = true for a wrong password")
	}
}

func TestPasswordHasher_HashesDiffer(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// Each hash carries its own salt.
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	hasher := NewPasswordHasher()

	if hasher.Verify("anything", "not-a-bcrypt-hash") {
		t.Error("Verify() = true for a malformed hash")
	}
}

func TestPasswordHasher_LongPassword(t *testing.T) {
	hasher := NewPasswordHasher()

	// bcrypt rejects inputs over 72 bytes.
	if _, err := hasher.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("Hash() accepted a password over 72 bytes")
	}
}
