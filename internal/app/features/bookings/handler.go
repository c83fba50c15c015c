// Package bookings captures appointment requests from the public booking
// form and lets admins review them.
package bookings

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	bookingstore "github.com/dalemusser/stratawell/internal/app/store/bookings"
	servicestore "github.com/dalemusser/stratawell/internal/app/store/services"
	"github.com/dalemusser/stratawell/internal/app/system/bookingtime"
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

const (
	noun        = "Booking"
	pastMessage = "Booking date and time cannot be in the past"
)

// Handler serves booking endpoints.
type Handler struct {
	bookings *bookingstore.Store
	services *servicestore.Store
	notifier *mailer.Notifier // nil when notifications are off
	loc      *time.Location
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a booking Handler. Dates and times are read in loc.
func NewHandler(
	bookings *bookingstore.Store,
	services *servicestore.Store,
	notifier *mailer.Notifier,
	loc *time.Location,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		bookings: bookings,
		services: services,
		notifier: notifier,
		loc:      loc,
		errLog:   errLog,
		logger:   logger,
		now:      time.Now,
	}
}

type createRequest struct {
	Name            string  `json:"name" validate:"required,max=100" label:"Name"`
	Email           string  `json:"email" validate:"required,email" label:"Email"`
	Mobile          string  `json:"mobile" validate:"required,max=30" label:"Mobile"`
	Address         string  `json:"address" validate:"required,max=300" label:"Address"`
	BookingDate     string  `json:"bookingDate" validate:"required" label:"Booking date"`
	BookingTime     string  `json:"bookingTime" validate:"required" label:"Booking time"`
	ServiceID       string  `json:"serviceId" validate:"required,objectid" label:"Service"`
	ServiceDuration int     `json:"serviceDuration"`
	ServicePrice    float64 `json:"servicePrice"`
	Notes           string  `json:"notes" validate:"max=2000" label:"Notes"`
}

// updateRequest never carries status; that moves only through PUT /{id}/status.
type updateRequest struct {
	Name            *string  `json:"name"`
	Email           *string  `json:"email"`
	Mobile          *string  `json:"mobile"`
	Address         *string  `json:"address"`
	BookingDate     *string  `json:"bookingDate"`
	BookingTime     *string  `json:"bookingTime"`
	ServiceDuration *int     `json:"serviceDuration"`
	ServicePrice    *float64 `json:"servicePrice"`
	Notes           *string  `json:"notes"`
}

func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

func (in updateRequest) check() string {
	switch {
	case blank(in.Name):
		return "Name cannot be empty."
	case in.Email != nil && !inputval.IsValidEmail(*in.Email):
		return "A valid email address is required."
	case blank(in.Mobile):
		return "Mobile cannot be empty."
	case blank(in.Address):
		return "Address cannot be empty."
	case in.ServiceDuration != nil && *in.ServiceDuration <= 0:
		return "Service duration must be positive."
	case in.ServicePrice != nil && *in.ServicePrice < 0:
		return "Service price cannot be negative."
	}
	return ""
}

type statusRequest struct {
	Status string `json:"status"`
}

// pathID reads {id}; ok is false for a malformed id.
func pathID(r *http.Request) (primitive.ObjectID, bool) {
	k := lookup.IDOnly(chi.URLParam(r, "id"))
	return k.ID, k.HasID
}

// Create serves POST /. The combined date and time must not be in the past.
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

	slot, err := bookingtime.Parse(in.BookingDate, in.BookingTime, h.loc)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	if slot.InPast(h.now()) {
		jsonutil.BadRequest(w, pastMessage)
		return
	}

	serviceID, _ := primitive.ObjectIDFromHex(in.ServiceID)
	svc, err := h.services.Get(ctx, lookup.ByID(serviceID))
	if err == mongo.ErrNoDocuments {
		jsonutil.BadRequest(w, "Service not found")
		return
	}
	if err != nil {
		h.errLog.Internal(w, r, "load service failed", err)
		return
	}

	duration, price, ok := pickDuration(svc, in.ServiceDuration, in.ServicePrice)
	if !ok {
		jsonutil.BadRequest(w, "Service duration is not offered")
		return
	}

	b, err := h.bookings.Create(ctx, bookingstore.CreateInput{
		Name:            in.Name,
		Email:           in.Email,
		Mobile:          in.Mobile,
		Address:         in.Address,
		BookingDate:     slot.Date,
		BookingTime:     slot.Clock,
		ScheduledAt:     slot.At,
		ServiceCategory: svc.Category,
		ServiceID:       svc.ID,
		ServiceDuration: duration,
		ServicePrice:    price,
		Notes:           in.Notes,
	})
	if err != nil {
		h.errLog.Internal(w, r, "create booking failed", err)
		return
	}

	h.logger.Info("booking created",
		zap.String("reference", b.BookingReference),
		zap.String("service", svc.Slug),
		zap.Time("scheduled_at", b.ScheduledAt))
	h.notifier.BookingCreated(b, svc.Title)
	jsonutil.JSON(w, http.StatusCreated, jsonutil.Envelope{
		Success: true,
		Message: "Booking created successfully",
		Data:    b,
	})
}

// pickDuration returns the booked length and price. When the service lists
// durations the requested minutes must be one of them and its price wins;
// without a list the submitted values are kept.
func pickDuration(svc models.Service, minutes int, price float64) (int, float64, bool) {
	if len(svc.Durations) == 0 {
		return minutes, price, minutes >= 0 && price >= 0
	}
	if minutes == 0 {
		return svc.Durations[0].Minutes, svc.Durations[0].Price, true
	}
	for _, d := range svc.Durations {
		if d.Minutes == minutes {
			return d.Minutes, d.Price, true
		}
	}
	return 0, 0, false
}

// List serves GET / with ?page, ?limit, ?search, and ?status.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.FromRequest(r, paging.DefaultLimit)
	f := bookingstore.ListFilter{
		Status: normalize.Status(query.Get(r, "status")),
		Search: query.Get(r, "search"),
	}
	if f.Status != "" && !models.IsValidBookingStatus(f.Status) {
		jsonutil.BadRequest(w, "Invalid status")
		return
	}
	items, total, err := h.bookings.List(ctx, f, p)
	if err != nil {
		h.errLog.Internal(w, r, "list bookings failed", err)
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
		jsonutil.NotFound(w, "Booking not found")
		return
	}
	b, err := h.bookings.Get(ctx, id)
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, b)
}

// GetByReference serves GET /reference/{ref} so visitors can look up their
// own booking.
func (h *Handler) GetByReference(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.bookings.GetByReference(ctx, chi.URLParam(r, "ref"))
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, b)
}

// Update serves PUT /{id}. A new date or time is combined with the stored
// counterpart and must not be in the past.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Booking not found")
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

	up := bookingstore.UpdateInput{
		Name:            in.Name,
		Email:           in.Email,
		Mobile:          in.Mobile,
		Address:         in.Address,
		ServiceDuration: in.ServiceDuration,
		ServicePrice:    in.ServicePrice,
		Notes:           in.Notes,
	}

	if in.BookingDate != nil || in.BookingTime != nil {
		cur, err := h.bookings.Get(ctx, id)
		if err != nil {
			h.errLog.Store(w, r, noun, err)
			return
		}
		date := cur.BookingDate.In(h.loc).Format("2006-01-02")
		if in.BookingDate != nil {
			date = *in.BookingDate
		}
		clock := cur.BookingTime
		if in.BookingTime != nil {
			clock = *in.BookingTime
		}
		slot, err := bookingtime.Parse(date, clock, h.loc)
		if err != nil {
			jsonutil.BadRequest(w, err.Error())
			return
		}
		if slot.InPast(h.now()) {
			jsonutil.BadRequest(w, pastMessage)
			return
		}
		up.BookingDate = &slot.Date
		up.BookingTime = &slot.Clock
		up.ScheduledAt = &slot.At
	}

	b, err := h.bookings.Update(ctx, id, up)
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.OK(w, b)
}

// UpdateStatus serves PUT /{id}/status. Only pending, confirmed, and
// cancelled are accepted; any transition between them is allowed.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Booking not found")
		return
	}
	var in statusRequest
	if !jsonutil.DecodeOrReject(w, r, &in) {
		return
	}
	b, err := h.bookings.UpdateStatus(ctx, id, in.Status)
	if errors.Is(err, bookingstore.ErrInvalidStatus) {
		jsonutil.BadRequest(w, "Invalid status")
		return
	}
	if err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	h.logger.Info("booking status changed",
		zap.String("reference", b.BookingReference),
		zap.String("status", b.Status))
	jsonutil.OK(w, b)
}

// Delete serves DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := pathID(r)
	if !ok {
		jsonutil.NotFound(w, "Booking not found")
		return
	}
	if err := h.bookings.Delete(ctx, id); err != nil {
		h.errLog.Store(w, r, noun, err)
		return
	}
	jsonutil.Message(w, "Booking deleted successfully", nil)
}
