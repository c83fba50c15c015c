// Package memberships serves membership plans at /api/memberships.
package memberships

import (
	"context"
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	membershipstore "github.com/dalemusser/stratawell/internal/app/store/memberships"
	"github.com/dalemusser/stratawell/internal/app/system/inputval"
	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/lookup"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const noun = "Membership"

// Handler serves membership plan endpoints.
type Handler struct {
	store  *membershipstore.Store
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a memberships Handler.
func NewHandler(store *membershipstore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, errLog: errLog, logger: logger}
}

type createRequest struct {
	Name         string   `json:"name" validate:"required,max=100" label:"Name"`
	Price        float64  `json:"price"`
	BillingCycle string   `json:"billingCycle" validate:"required,billingcycle" label:"Billing cycle"`
	Perks        []string `json:"perks"`
	Terms        string   `json:"terms" validate:"max=5000" label:"Terms"`
	Order        int      `json:"order"`
}

type updateRequest struct {
	Name         *string   `json:"name"`
	Price        *float64  `json:"price"`
	BillingCycle *string   `json:"billingCycle"`
	Perks        *[]string `json:"perks"`
	Terms        *string   `json:"terms"`
	Order        *int      `json:"order"`
}

func (in updateRequest) check() string {
	switch {
	case in.Name != nil && strings.TrimSpace(*in.Name) == "":
		return "Name cannot be empty."
	case in.Price != nil && *in.Price < 0:
		return "Price cannot be negative."
	}
	return ""
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, membershipstore.ErrInvalidBillingCycle) {
		jsonutil.BadRequest(w, "Billing cycle must be one of: monthly, yearly, one-time.")
		return
	}
	h.errLog.Store(w, r, noun, err)
}

// List serves GET /, ordered for display.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.store.List(ctx)
	if err != nil {
		h.errLog.Internal(w, r, "list memberships failed", err)
		return
	}
	jsonutil.OK(w, items)
}

// Get serves GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	k := lookup.IDOnly(chi.URLParam(r, "id"))
	if k.Empty() {
		jsonutil.NotFound(w, "Membership not found")
		return
	}
	m, err := h.store.Get(ctx, k.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonutil.OK(w, m)
}

// Create serves POST /.
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
	if in.Price < 0 {
		jsonutil.BadRequest(w, "Price cannot be negative.")
		return
	}
	m, err := h.store.Create(ctx, membershipstore.CreateInput{
		Name:         in.Name,
		Price:        in.Price,
		BillingCycle: in.BillingCycle,
		Perks:        in.Perks,
		Terms:        in.Terms,
		Order:        in.Order,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("membership created", zap.String("id", m.ID.Hex()), zap.String("name", m.Name))
	jsonutil.Created(w, m)
}

// Update serves PUT /{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	k := lookup.IDOnly(chi.URLParam(r, "id"))
	if k.Empty() {
		jsonutil.NotFound(w, "Membership not found")
		return
	}
	var in updateRequest
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	if msg := in.check(); msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}
	m, err := h.store.Update(ctx, k.ID, membershipstore.UpdateInput{
		Name:         in.Name,
		Price:        in.Price,
		BillingCycle: in.BillingCycle,
		Perks:        in.Perks,
		Terms:        in.Terms,
		Order:        in.Order,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonutil.OK(w, m)
}

// Delete serves DELETE /{id}. Registrations for the plan keep their reference.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	k := lookup.IDOnly(chi.URLParam(r, "id"))
	if k.Empty() {
		jsonutil.NotFound(w, "Membership not found")
		return
	}
	if err := h.store.Delete(ctx, k.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	jsonutil.Message(w, "Membership deleted successfully", nil)
}
