package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "lavender-oil-42", nil},
		{"exactly min length", "abcdefgh", nil},
		{"too short", "abc", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"too long", strings.Repeat("x", MaxPasswordLength+1), ErrPasswordTooLong},
		{"max length", strings.Repeat("x", MaxPasswordLength), nil},
		{"common", "password", ErrPasswordCommon},
		{"common uppercase", "PASSWORD1", ErrPasswordCommon},
		{"domain word", "Wellness", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePassword(tt.password); err != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("lavender-oil-42")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "lavender-oil-42" {
		t.Fatal("HashPassword() returned plain text")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("HashPassword() = %q, want bcrypt hash", hash)
	}

	if !CheckPassword("lavender-oil-42", hash) {
		t.Error("CheckPassword() = false for correct password")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("CheckPassword() = true for wrong password")
	}
	if CheckPassword("", hash) {
		t.Error("CheckPassword() = true for empty password")
	}
	if CheckPassword("lavender-oil-42", "") {
		t.Error("CheckPassword() = true for empty hash")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("lavender-oil-42")
	b, _ := HashPassword("lavender-oil-42")
	if a == b {
		t.Error("HashPassword() should salt each hash")
	}
}

func TestBurnCompare(t *testing.T) {
	// must not panic on first or repeated use
	BurnCompare("anything")
	BurnCompare("")
}

func TestPasswordRules(t *testing.T) {
	if !strings.Contains(PasswordRules(), "8") {
		t.Error("PasswordRules() should mention minimum length")
	}
}

func TestCredentials(t *testing.T) {
	tests := []struct {
		name    string
		in      Credentials
		wantErr error
	}{
		{"valid", Credentials{Email: " Owner@Spa.Test ", Password: "x"}, nil},
		{"missing email", Credentials{Password: "x"}, ErrEmailRequired},
		{"bad email", Credentials{Email: "owner", Password: "x"}, ErrInvalidEmail},
		{"missing password", Credentials{Email: "owner@spa.test"}, ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Normalized().CheckPresent(); err != tt.wantErr {
				t.Errorf("CheckPresent() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if got := (Credentials{Email: " A@B.CO "}).Normalized().Email; got != "a@b.co" {
		t.Errorf("Normalized().Email = %q, want a@b.co", got)
	}
}
