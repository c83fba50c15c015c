// internal/app/system/authutil/password.go
// Package authutil holds admin credential rules: password policy, bcrypt
// hashing, and login input checks.
package authutil

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores bytes beyond 72
	BcryptCost        = 12
)

var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters.")
	ErrPasswordTooLong  = errors.New("Password must be at most 72 characters.")
	ErrPasswordCommon   = errors.New("This password is too common. Please choose a different one.")
)

var blockedPasswords = map[string]bool{
	"12345678":  true,
	"123456789": true,
	"password":  true,
	"password1": true,
	"qwerty123": true,
	"iloveyou":  true,
	"sunshine":  true,
	"princess":  true,
	"football":  true,
	"baseball":  true,
	"superman":  true,
	"letmein1":  true,
	"welcome1":  true,
	"admin123":  true,
	"spa12345":  true,
	"massage1":  true,
	"wellness":  true,
}

// PasswordRules describes the policy for setup forms.
func PasswordRules() string {
	return "Password must be 8 to 72 characters and cannot be a common password like \"password\"."
}

// ValidatePassword checks an admin password against the policy.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	case blockedPasswords[strings.ToLower(password)]:
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword hashes a validated password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// BurnCompare spends the same bcrypt work as CheckPassword for an unknown
// account so response time does not reveal whether an email exists.
func BurnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("stratawell-unknown-account"), BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
