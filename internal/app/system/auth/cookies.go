// internal/app/system/auth/cookies.go
package auth

import (
	"net/http"
	"time"
)

// Cookie names carrying the access token. auth_token is scoped to the whole
// site; cms_token only to the dashboard under /cms.
const (
	CookieAuthToken = "auth_token"
	CookieCMSToken  = "cms_token"
)

// RoleAdmin is the role claim granted at login.
const RoleAdmin = "admin"

// CookieOptions controls the attributes of the auth cookies.
type CookieOptions struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

func (o CookieOptions) cookies(value string, maxAge int) []*http.Cookie {
	mk := func(name, path string) *http.Cookie {
		return &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     path,
			Domain:   o.Domain,
			MaxAge:   maxAge,
			HttpOnly: true,
			Secure:   o.Secure,
			SameSite: http.SameSiteLaxMode,
		}
	}
	return []*http.Cookie{
		mk(CookieAuthToken, "/"),
		mk(CookieCMSToken, "/cms"),
	}
}

// SetAuthCookies writes the token into both auth cookies.
func SetAuthCookies(w http.ResponseWriter, token string, o CookieOptions) {
	maxAge := o.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultTTL
	}
	for _, c := range o.cookies(token, int(maxAge.Seconds())) {
		http.SetCookie(w, c)
	}
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(w http.ResponseWriter, o CookieOptions) {
	for _, c := range o.cookies("", -1) {
		http.SetCookie(w, c)
	}
}
