// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"strings"
	"time"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers the framework-level settings (ports, TLS,
// logging, body limits, timeouts). Everything specific to the wellness
// backend lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Admin tokens and the cookies that carry them
	JWTSecret    string        // HS256 signing secret
	JWTTTL       time.Duration // token and cookie lifetime (default: 24h)
	CookieDomain string        // blank means current host
	CookieSecure bool          // forced on in prod

	// Origins allowed to call the API with credentials
	CORSAllowedOrigins []string

	// Edge rate limiting per client IP (0 requests disables a limiter)
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	RateLimitAuthRequests int
	RateLimitAuthWindow   time.Duration

	// Login lockout per admin email
	RateLimitEnabled       bool          // default: true
	RateLimitLoginAttempts int           // default: 5
	RateLimitLoginWindow   time.Duration // default: 15m
	RateLimitLoginLockout  time.Duration // default: 15m

	// File storage configuration
	StorageType      string // "local" or "s3"
	StorageLocalPath string // e.g., "./uploads"
	StorageLocalURL  string // e.g., "/files"

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageCFURL       string
	StorageCFKeyPairID string
	StorageCFKeyPath   string

	// Upload ceilings in bytes
	UploadMaxBytes        int64
	GalleryUploadMaxBytes int64

	// IANA zone booking dates and times are read in
	BusinessTimezone string

	// Email/SMTP configuration; notifications are off unless host, from,
	// and NotifyEmail are all set
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string
	NotifyEmail  string
	SiteName     string

	// Per-operation database deadlines
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Admin created at startup when set and no admin with that email exists
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Location loads BusinessTimezone, defaulting to UTC when blank.
func (c AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.BusinessTimezone)
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// SecureCookies reports whether auth cookies get the Secure attribute.
func (c AppConfig) SecureCookies(env string) bool {
	return c.CookieSecure || env == "prod"
}
