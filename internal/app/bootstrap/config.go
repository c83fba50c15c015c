// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/dalemusser/stratawell/internal/app/system/uploads"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATAWELL"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: STRATAWELL_MONGO_URI, STRATAWELL_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratawell", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Admin tokens
	{Name: "jwt_secret", Default: "", Desc: "HS256 signing secret for admin tokens (32+ random chars in production)"},
	{Name: "jwt_ttl", Default: "24h", Desc: "Admin token and auth cookie lifetime"},
	{Name: "cookie_domain", Default: "", Desc: "Auth cookie domain (blank means current host)"},
	{Name: "cookie_secure", Default: false, Desc: "Mark auth cookies Secure (always on in prod)"},

	// Browser origins allowed to call the API with credentials
	{Name: "cors_allowed_origins", Default: "http://localhost:3000", Desc: "Comma-separated list of allowed CORS origins"},

	// Edge rate limiting (per client IP)
	{Name: "rate_limit_requests", Default: 100, Desc: "Requests allowed per window on /api (0 disables)"},
	{Name: "rate_limit_window", Default: "15m", Desc: "Window for rate_limit_requests"},
	{Name: "rate_limit_auth_requests", Default: 5, Desc: "Requests allowed per window on /api/auth (0 disables)"},
	{Name: "rate_limit_auth_window", Default: "15m", Desc: "Window for rate_limit_auth_requests"},

	// Login lockout (per admin email)
	{Name: "rate_limit_enabled", Default: true, Desc: "Enable lockout after repeated failed logins"},
	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Max failed login attempts before lockout"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Time window for counting failed attempts"},
	{Name: "rate_limit_login_lockout", Default: "15m", Desc: "Lockout duration after exceeding limit"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "wellness/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Upload ceilings
	{Name: "upload_max_bytes", Default: int(uploads.MaxImageBytes), Desc: "Max size of an image sent to /api/upload/image"},
	{Name: "gallery_upload_max_bytes", Default: int(uploads.MaxGalleryBytes), Desc: "Max size of an image uploaded with a gallery item"},

	// Booking dates and times are interpreted in this zone
	{Name: "business_timezone", Default: "UTC", Desc: "IANA time zone of the business (e.g., Asia/Kolkata)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables notifications)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "", Desc: "From email address"},
	{Name: "mail_from_name", Default: "StrataWell", Desc: "From display name"},
	{Name: "notify_email", Default: "", Desc: "Where new booking and registration notices are sent"},
	{Name: "site_name", Default: "StrataWell", Desc: "Business name used in notification subjects"},

	// Per-operation database deadlines
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads and writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries with counts"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for uploads and bulk writes"},

	// Admin seeding configuration
	{Name: "seed_admin_email", Default: "", Desc: "Email of admin to create on startup when none exists"},
	{Name: "seed_admin_password", Default: "", Desc: "Password of the seeded admin"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// STRATAWELL_* environment variables, and flags, merged with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:    appValues.String("jwt_secret"),
		JWTTTL:       appValues.Duration("jwt_ttl", auth.DefaultTTL),
		CookieDomain: appValues.String("cookie_domain"),
		CookieSecure: appValues.Bool("cookie_secure"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		RateLimitRequests:     appValues.Int("rate_limit_requests"),
		RateLimitWindow:       appValues.Duration("rate_limit_window", 15*time.Minute),
		RateLimitAuthRequests: appValues.Int("rate_limit_auth_requests"),
		RateLimitAuthWindow:   appValues.Duration("rate_limit_auth_window", 15*time.Minute),

		RateLimitEnabled:       appValues.Bool("rate_limit_enabled"),
		RateLimitLoginAttempts: appValues.Int("rate_limit_login_attempts"),
		RateLimitLoginWindow:   appValues.Duration("rate_limit_login_window", 15*time.Minute),
		RateLimitLoginLockout:  appValues.Duration("rate_limit_login_lockout", 15*time.Minute),

		StorageType:      strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		UploadMaxBytes:        int64(appValues.Int("upload_max_bytes")),
		GalleryUploadMaxBytes: int64(appValues.Int("gallery_upload_max_bytes")),

		BusinessTimezone: appValues.String("business_timezone"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),
		NotifyEmail:  appValues.String("notify_email"),
		SiteName:     appValues.String("site_name"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.Defaults.Short),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.Defaults.Medium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.Defaults.Long),

		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations the server cannot run with.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if err := validateSecret(appCfg.JWTSecret, coreCfg.Env == "prod"); err != nil {
		logger.Error("invalid jwt secret", zap.Error(err))
		return err
	}

	switch appCfg.StorageType {
	case "local", "":
	case "s3":
		if appCfg.StorageS3Bucket == "" {
			return errors.New("storage_s3_bucket is required when storage_type is s3")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", appCfg.StorageType)
	}

	if _, err := appCfg.Location(); err != nil {
		logger.Error("invalid business timezone", zap.String("timezone", appCfg.BusinessTimezone), zap.Error(err))
		return fmt.Errorf("invalid business_timezone %q: %w", appCfg.BusinessTimezone, err)
	}

	if appCfg.SeedAdminEmail != "" && appCfg.SeedAdminPassword == "" {
		return errors.New("seed_admin_password is required when seed_admin_email is set")
	}

	return nil
}

// validateSecret fails on an empty secret, and on a weak one when strict.
func validateSecret(secret string, strict bool) error {
	if secret == "" {
		return errors.New("jwt_secret is required")
	}
	if strict && auth.IsWeakSecret(secret) {
		return errors.New("jwt_secret is too weak for production; provide 32+ random chars")
	}
	return nil
}

// splitList parses a comma-separated config value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
