// internal/app/features/errors/errors.go
package errors

import (
	goerrors "errors"
	"net/http"
	"runtime/debug"

	"github.com/dalemusser/stratawell/internal/app/store/storeutil"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrorLogger wraps the zap logger for error logging.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the given message and error.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.logger.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}, fields...)
	e.logger.Error(msg, allFields...)
}

// Internal logs err and writes the generic 500 envelope.
func (e *ErrorLogger) Internal(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	e.LogWithFields(r, msg, err, fields...)
	jsonutil.InternalError(w)
}

// Store answers a failed store call for the named entity: 404 when the
// document is missing, 400 for uniqueness or slug problems, 500 otherwise.
func (e *ErrorLogger) Store(w http.ResponseWriter, r *http.Request, entity string, err error) {
	switch {
	case goerrors.Is(err, mongo.ErrNoDocuments):
		jsonutil.NotFound(w, entity+" not found")
	case goerrors.Is(err, storeutil.ErrDuplicateName):
		jsonutil.BadRequest(w, entity+" with this name already exists")
	case goerrors.Is(err, storeutil.ErrDuplicateSlug):
		jsonutil.BadRequest(w, entity+" with this slug already exists")
	case goerrors.Is(err, storeutil.ErrEmptySlug):
		jsonutil.BadRequest(w, entity+" name must contain at least one letter or number")
	default:
		e.Internal(w, r, "store operation failed", err, zap.String("entity", entity))
	}
}

// Handler provides the JSON fallbacks mounted on the root router.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new error Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, "Route not found")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// Recoverer is the last-resort catch-all: a panic in any handler is logged
// with its stack and answered with the generic 500 envelope.
func (h *Handler) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.logger.Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.ByteString("stack", debug.Stack()))
			jsonutil.InternalError(w)
		}()
		next.ServeHTTP(w, r)
	})
}
