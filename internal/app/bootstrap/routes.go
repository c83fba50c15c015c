// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	articlesfeature "github.com/dalemusser/stratawell/internal/app/features/articles"
	authapifeature "github.com/dalemusser/stratawell/internal/app/features/authapi"
	bookingsfeature "github.com/dalemusser/stratawell/internal/app/features/bookings"
	categoriesfeature "github.com/dalemusser/stratawell/internal/app/features/categories"
	contentfeature "github.com/dalemusser/stratawell/internal/app/features/content"
	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	galleryfeature "github.com/dalemusser/stratawell/internal/app/features/gallery"
	healthfeature "github.com/dalemusser/stratawell/internal/app/features/health"
	membershipsfeature "github.com/dalemusser/stratawell/internal/app/features/memberships"
	registrationsfeature "github.com/dalemusser/stratawell/internal/app/features/registrations"
	servicesfeature "github.com/dalemusser/stratawell/internal/app/features/services"
	settingsfeature "github.com/dalemusser/stratawell/internal/app/features/settings"
	statusfeature "github.com/dalemusser/stratawell/internal/app/features/status"
	testimonialsfeature "github.com/dalemusser/stratawell/internal/app/features/testimonials"
	uploadfeature "github.com/dalemusser/stratawell/internal/app/features/upload"
	adminstore "github.com/dalemusser/stratawell/internal/app/store/admins"
	articlestore "github.com/dalemusser/stratawell/internal/app/store/articles"
	bookingstore "github.com/dalemusser/stratawell/internal/app/store/bookings"
	categorystore "github.com/dalemusser/stratawell/internal/app/store/categories"
	contentstore "github.com/dalemusser/stratawell/internal/app/store/content"
	gallerystore "github.com/dalemusser/stratawell/internal/app/store/gallery"
	membershipstore "github.com/dalemusser/stratawell/internal/app/store/memberships"
	"github.com/dalemusser/stratawell/internal/app/store/ratelimit"
	registrationstore "github.com/dalemusser/stratawell/internal/app/store/registrations"
	servicestore "github.com/dalemusser/stratawell/internal/app/store/services"
	settingsstore "github.com/dalemusser/stratawell/internal/app/store/settings"
	testimonialstore "github.com/dalemusser/stratawell/internal/app/store/testimonials"
	"github.com/dalemusser/stratawell/internal/app/system/apicors"
	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/dalemusser/stratawell/internal/app/system/edgelimit"
	"github.com/dalemusser/stratawell/internal/app/system/mailer"
	"github.com/dalemusser/stratawell/internal/app/system/uploads"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler.
//
// Every route under /api answers with the JSON envelope. Reads of public
// content are open; mutations and admin listings go through
// auth.Authenticator.AdminOnly inside each feature's Routes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	prod := coreCfg.Env == "prod"

	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTTTL, prod, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}
	authn := auth.NewAuthenticator(tokens, logger)
	cookies := auth.CookieOptions{
		Domain: appCfg.CookieDomain,
		Secure: appCfg.SecureCookies(coreCfg.Env),
		MaxAge: tokens.TTL(),
	}

	db := deps.MongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler(logger)

	var lockout *ratelimit.Store
	if appCfg.RateLimitEnabled {
		lockout = ratelimit.New(db, ratelimit.Policy{
			MaxAttempts: appCfg.RateLimitLoginAttempts,
			Window:      appCfg.RateLimitLoginWindow,
			Lockout:     appCfg.RateLimitLoginLockout,
		})
	}

	uploader := uploads.New(deps.FileStorage, logger)
	notifier := mailer.NewNotifier(deps.Mailer, appCfg.NotifyEmail, appCfg.SiteName, deps.Location, logger)

	categories := categorystore.New(db, categorystore.CollectionCategories)
	articleCategories := categorystore.New(db, categorystore.CollectionArticleCategories)
	services := servicestore.New(db)
	memberships := membershipstore.New(db)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	// Last-resort catch-all: a panic becomes the generic 500 envelope.
	r.Use(errorsHandler.Recoverer)

	r.Use(chimw.Timeout(30 * time.Second))

	// CORS must run before anything that can reject a preflight.
	r.Use(apicors.Middleware(appCfg.CORSAllowedOrigins))

	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// API Routes
	// ─────────────────────────────────────────────────────────────────────────────

	r.Route("/api", func(api chi.Router) {
		api.Use(edgelimit.Limit(appCfg.RateLimitRequests, appCfg.RateLimitWindow, edgelimit.MessageGeneral))

		authHandler := authapifeature.NewHandler(adminstore.New(db), authn, lockout, cookies, errLog, logger)
		api.Route("/auth", func(ar chi.Router) {
			ar.Use(edgelimit.Limit(appCfg.RateLimitAuthRequests, appCfg.RateLimitAuthWindow, edgelimit.MessageAuth))
			ar.Mount("/", authapifeature.Routes(authHandler))
		})

		api.Mount("/categories", categoriesfeature.Routes(
			categoriesfeature.NewHandler(categories, "Category", errLog, logger), authn))
		api.Mount("/article-categories", categoriesfeature.Routes(
			categoriesfeature.NewHandler(articleCategories, "Article category", errLog, logger), authn))

		api.Mount("/services", servicesfeature.Routes(
			servicesfeature.NewHandler(services, categories, errLog, logger), authn))
		api.Mount("/articles", articlesfeature.Routes(
			articlesfeature.NewHandler(articlestore.New(db), articleCategories, errLog, logger), authn))

		api.Mount("/bookings", bookingsfeature.Routes(
			bookingsfeature.NewHandler(bookingstore.New(db), services, notifier, deps.Location, errLog, logger), authn))

		api.Mount("/memberships", membershipsfeature.Routes(
			membershipsfeature.NewHandler(memberships, errLog, logger), authn))
		api.Mount("/member-registrations", registrationsfeature.Routes(
			registrationsfeature.NewHandler(registrationstore.New(db), memberships, notifier, errLog, logger), authn))

		api.Mount("/testimonials", testimonialsfeature.Routes(
			testimonialsfeature.NewHandler(testimonialstore.New(db), errLog, logger), authn))

		api.Mount("/gallery", galleryfeature.Routes(
			galleryfeature.NewHandler(gallerystore.New(db), uploader, appCfg.GalleryUploadMaxBytes, errLog, logger), authn))
		api.Mount("/upload", uploadfeature.Routes(
			uploadfeature.NewHandler(uploader, appCfg.UploadMaxBytes, errLog, logger), authn))

		api.Mount("/settings", settingsfeature.Routes(
			settingsfeature.NewHandler(settingsstore.New(db), errLog, logger), authn))

		api.Mount("/homepage", contentfeature.Routes(
			contentfeature.NewHomepageHandler(contentstore.NewHomepage(db), errLog, logger), authn))
		api.Mount("/about", contentfeature.Routes(
			contentfeature.NewAboutHandler(contentstore.NewAbout(db), errLog, logger), authn))

		api.Mount("/admin/status", statusfeature.Routes(
			statusfeature.NewHandler(db, statusConfig(coreCfg, appCfg), logger), authn))

		api.NotFound(errorsHandler.NotFound)
		api.MethodNotAllowed(errorsHandler.MethodNotAllowed)
	})

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded files (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}

// statusConfig is the configuration shown on the admin status report, with
// secrets masked.
func statusConfig(coreCfg *config.CoreConfig, appCfg AppConfig) []statusfeature.ConfigGroup {
	item := func(name, value string) statusfeature.ConfigItem {
		return statusfeature.ConfigItem{Name: name, Value: value}
	}
	dur := func(d time.Duration) string { return d.String() }
	yes := func(b bool) string {
		if b {
			return "true"
		}
		return "false"
	}

	return []statusfeature.ConfigGroup{
		{Name: "Environment", Items: []statusfeature.ConfigItem{
			item("env", coreCfg.Env),
			item("business_timezone", appCfg.BusinessTimezone),
		}},
		{Name: "MongoDB", Items: []statusfeature.ConfigItem{
			item("mongo_uri", statusfeature.Mask(appCfg.MongoURI)),
			item("mongo_database", appCfg.MongoDatabase),
		}},
		{Name: "Auth", Items: []statusfeature.ConfigItem{
			item("jwt_secret", statusfeature.Mask(appCfg.JWTSecret)),
			item("jwt_ttl", dur(appCfg.JWTTTL)),
			item("cookie_domain", appCfg.CookieDomain),
			item("cookie_secure", yes(appCfg.SecureCookies(coreCfg.Env))),
			item("rate_limit_enabled", yes(appCfg.RateLimitEnabled)),
		}},
		{Name: "Storage", Items: []statusfeature.ConfigItem{
			item("storage_type", appCfg.StorageType),
			item("storage_local_url", appCfg.StorageLocalURL),
			item("storage_s3_bucket", appCfg.StorageS3Bucket),
			item("storage_cf_url", appCfg.StorageCFURL),
		}},
		{Name: "Mail", Items: []statusfeature.ConfigItem{
			item("mail_smtp_host", appCfg.MailSMTPHost),
			item("mail_smtp_pass", statusfeature.Mask(appCfg.MailSMTPPass)),
			item("mail_from", appCfg.MailFrom),
			item("notify_email", appCfg.NotifyEmail),
		}},
	}
}
