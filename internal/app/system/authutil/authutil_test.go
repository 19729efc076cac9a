package authutil

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !IsBcryptHash(hash) {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Error("expected password to match its hash")
	}
	if CheckPassword(hash, "S3cret!") {
		t.Error("expected a different password not to match")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Error("expected two hashes of the same password to differ")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err != ErrEmptyPassword {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestCheckPassword_BadInputs(t *testing.T) {
	hash, _ := HashPassword("pw")
	tests := []struct {
		name, hash, pw string
	}{
		{"empty hash", "", "pw"},
		{"empty password", hash, ""},
		{"plaintext stored", "pw", "pw"},
		{"garbage hash", strings.Repeat("x", 60), "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if CheckPassword(tt.hash, tt.pw) {
				t.Error("expected no match")
			}
		})
	}
}

func TestIsBcryptHash(t *testing.T) {
	if IsBcryptHash("plain") {
		t.Error("plain text is not a bcrypt hash")
	}
	if !IsBcryptHash("$2a$10$" + strings.Repeat("a", 53)) {
		t.Error("expected $2a$ prefix of length 60 to be recognized")
	}
}
