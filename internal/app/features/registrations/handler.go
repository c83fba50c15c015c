// Package registrations takes membership sign-ups from the public site
// and lets admins approve or reject them.
package registrations

import (
	"context"
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	membershipstore "github.com/dalemusser/stratawell/internal/app/store/memberships"
	registrationstore "github.com/dalemusser/stratawell/internal/app/store/registrations"
	"github.com/dalemusser/stratawell/internal/app/system/inputval"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/mailer"
	"github.com/dalemusser/stratawell/internal/app/system/normalize"
	"github.com/dalemusser/stratawell/internal/app/system/paging"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const noun = "Registration"

// Handler serves membership registration endpoints.
type Handler struct {
	registrations *registrationstore.Store
	memberships   *membershipstore.Store
	notifier      *mailer.Notifier
	errLog        *errorsfeature.ErrorLogger
	logger        *zap.Logger
}

// NewHandler creates a registrations Handler. notifier may be nil.
func NewHandler(
	registrations *registrationstore.Store,
	memberships *membershipstore.Store,
	notifier *mailer.Notifier,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		registrations: registrations,
		memberships:   memberships,
		notifier:      notifier,
		errLog:        errLog,
		logger:        logger,
	}
}

type createRequest struct {
	Name   string `json:"name" validate:"required,max=100" label:"Name"`
	Email  string `json:"email" validate:"required,email" label:"Email"`
	Mobile string `json:"mobile" validate:"required,max=30" label:"Mobile"`
	Plan   string `json:"plan" validate:"required,objectid" label:"Plan"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func pathID(r *http.Request) (primitive.ObjectID, bool) {
	k := lookup.IDOnly(chi.URLParam(r, "id"))
	return k.ID, k.HasID
}

// Create serves POST /. The plan must be an existing membership and each
// email may register once.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var in createRequest
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.BadRequest(w, res.First())
		return
	}

	planID, _ := primitive.ObjectIDFromHex(in.Plan)
	plan, err := h.memberships.Get(ctx, planID)
	if err == mongo.ErrNoDocuments {
		jsonutil.BadRequest(w, "Membership plan not found")
		return
	}
	if err != nil {
		h.errLog.Internal(w, r, "load membership failed", err)
		return
	}

	reg, err := h.registrations.Create(ctx, registrationstore.CreateInput{
		Name:   in.Name,
		Email:  in.Email,
		Mobile: in.Mobile,
		Plan:   plan.ID,
	})
	if errors.Is(err, registrationstore.ErrDuplicateEmail) {
		jsonutil.BadRequest(w, "This email is already registered")
		return
	}
	if err != nil {
		h.errLog.Internal(w, r, "create registration failed", err)
		return
	}

	h.logger.Info("member registration created",
		zap.String("id", reg.ID.Hex()),
		zap.String("plan", plan.Name))
	h.notifier.RegistrationCreated(reg, plan.Name)
	jsonutil.JSON(w, http.StatusCreated, jsonutil.Envelope{
		Success: true,
		Message: "Registration submitted successfully",
		Data:    reg,
	})
}

// List serves GET / with ?page, ?limit, ?search, ?status, and ?plan.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.FromRequest(r, paging.DefaultLimit)
	f := registrationstore.ListFilter{
		Status: normalize.Status(query.Get(r, "status")),
		Search: query.Get(r, "search"),
	}
	if f.Status != "" && !models.IsValidRegistrationStatus(f.Status) {
		jsonutil.BadRequest(w, "Invalid status")
		return
	}
	if raw := query.Get(r, "plan"); raw != "" {
		planID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			jsonutil.Page(w, []models.MemberRegistration{}, paging.NewMeta(p, 0))
			return
		}
		f.Plan = &planID
	}

	items, total, err := h.registrations.List(ctx, f, p)
	if err != nil {
		h.errLog.Internal(w, r, "list registrations failed", err)
		return
	}
	jsonutil.Page(w, items, paging.NewMeta(p, total))
}

// Get serves GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Registration not found")
		return
	}
	reg, err := h.registrations.Get(ctx, id)
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, reg)
}

// UpdateStatus serves PUT /{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Registration not found")
		return
	}
	var in statusRequest
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	reg, err := h.registrations.UpdateStatus(ctx, id, in.Status)
	if errors.Is(err, registrationstore.ErrInvalidStatus) {
		jsonutil.BadRequest(w, "Invalid status")
		return
	}
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	h.logger.Info("registration status updated",
		zap.String("id", reg.ID.Hex()),
		zap.String("status", reg.Status))
	jsonutil.OK(w, reg)
}

// Delete serves DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Registration not found")
		return
	}
	if err := h.registrations.Delete(ctx, id); err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.Message(w, "Registration deleted successfully", nil)
}
