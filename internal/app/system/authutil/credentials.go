// internal/app/system/authutil/credentials.go
package authutil

import (
	"errors"

	"github.com/dalemusser/stratawell/internal/app/system/inputval"
	"github.com/dalemusser/stratawell/internal/app/system/normalize"
)

var (
	ErrEmailRequired    = errors.New("Email is required.")
	ErrInvalidEmail     = errors.New("Please enter a valid email address.")
	ErrPasswordRequired = errors.New("Password is required.")
)

// Credentials is the body of login and setup requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalized returns a copy with the email trimmed and lowercased.
// The password is left untouched.
func (c Credentials) Normalized() Credentials {
	return Credentials{Email: normalize.Email(c.Email), Password: c.Password}
}

// CheckPresent verifies both fields are filled in and the email looks valid.
// It does not apply the password policy; login must accept legacy passwords.
func (c Credentials) CheckPresent() error {
	if c.Email == "" {
		return ErrEmailRequired
	}
	if !inputval.IsValidEmail(c.Email) {
		return ErrInvalidEmail
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}
