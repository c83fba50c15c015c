// internal/app/features/settings/settings.go
package settings

import (
	"context"
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	settingsstore "github.com/dalemusser/stratawell/internal/app/store/settings"
	"github.com/dalemusser/stratawell/internal/app/system/auth"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxValueLength is the maximum allowed length of one setting value (100KB).
const MaxValueLength = 100000

// MaxKeyLength bounds setting keys.
const MaxKeyLength = 100

// Handler provides settings handlers.
type Handler struct {
	store  *settingsstore.Store
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a new settings Handler.
func NewHandler(store *settingsstore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, errLog: errLog, logger: logger}
}

// Routes returns the /api/settings router. Reads are public.
func Routes(h *Handler, authn *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{key}", h.get)

	r.Group(func(pr chi.Router) {
		pr.Use(authn.AdminOnly)
		pr.Put("/", h.updateMany)
		pr.Put("/{key}", h.update)
		pr.Delete("/{key}", h.reset)
	})
	return r
}

func checkPair(key, value string) string {
	switch {
	case strings.TrimSpace(key) == "":
		return "Setting key is required."
	case len(key) > MaxKeyLength:
		return "Setting key is too long."
	case len(value) > MaxValueLength:
		return "Setting value for " + key + " is too long."
	}
	return ""
}

// list returns every setting as one key/value object, defaults included.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.store.All(ctx)
	if err != nil {
		h.errLog.Internal(w, r, "list settings failed", err)
		return
	}
	jsonutil.OK(w, all)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	st, err := h.store.Get(ctx, chi.URLParam(r, "key"))
	if err != nil {
		h.errLog.Store(w, r, "Setting", err)
		return
	}
	jsonutil.OK(w, st)
}

// updateMany saves a flat {key: value} object in one write.
func (h *Handler) updateMany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var in map[string]string
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	if len(in) == 0 {
		jsonutil.BadRequest(w, "No settings provided.")
		return
	}
	for k, v := range in {
		if msg := checkPair(k, v); msg != "" {
			jsonutil.BadRequest(w, msg)
			return
		}
	}
	all, err := h.store.SetMany(ctx, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("settings updated", zap.Int("count", len(in)))
	jsonutil.Message(w, "Settings updated successfully", all)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var in struct {
		Value *string `json:"value"`
	}
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	if in.Value == nil {
		jsonutil.BadRequest(w, "Value is required.")
		return
	}
	key := chi.URLParam(r, "key")
	if msg := checkPair(key, *in.Value); msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}
	st, err := h.store.Set(ctx, key, *in.Value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("setting updated", zap.String("key", st.Key))
	jsonutil.OK(w, st)
}

// reset drops a saved value so the default applies again.
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	key := chi.URLParam(r, "key")
	if err := h.store.Delete(ctx, key); err != nil {
		h.fail(w, r, err)
		return
	}
	jsonutil.Message(w, "Setting reset successfully", nil)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, settingsstore.ErrEmptyKey):
		jsonutil.BadRequest(w, "Setting key is required.")
	case errors.Is(err, mongo.ErrNoDocuments):
		jsonutil.NotFound(w, "Setting not found")
	default:
		h.errLog.Internal(w, r, "save settings failed", err)
	}
}
