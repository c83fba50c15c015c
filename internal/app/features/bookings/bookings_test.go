package bookings

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	bookingstore "github.com/dalemusser/stratawell/internal/app/store/bookings"
	servicestore "github.com/dalemusser/stratawell/internal/app/store/services"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/stratawell/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	fixedNow         = time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	referencePattern = regexp.MustCompile(`^BK\d+\d{3}$`)
)

type fixture struct {
	routes  http.Handler
	token   string
	service models.Service
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	authn := testutil.Authenticator(t)
	services := servicestore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	svc, err := services.Create(ctx, servicestore.CreateInput{
		Title:     "Aromatherapy",
		Category:  primitive.NewObjectID(),
		ShortDesc: "Oils",
		Durations: []models.ServiceDuration{{Minutes: 60, Price: 75}, {Minutes: 90, Price: 100}},
	})
	if err != nil {
		t.Fatalf("Create service error = %v", err)
	}

	h := NewHandler(bookingstore.New(db), services, nil, time.UTC,
		errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	h.now = func() time.Time { return fixedNow }
	return fixture{routes: Routes(h, authn), token: testutil.AdminToken(t, authn), service: svc}
}

func (f fixture) body(date, clock string) map[string]any {
	return map[string]any{
		"name":            "Lena Park",
		"email":           "Lena@Example.com",
		"mobile":          "0400 000 000",
		"address":         "1 Quiet Lane",
		"bookingDate":     date,
		"bookingTime":     clock,
		"serviceId":       f.service.ID.Hex(),
		"serviceDuration": 90,
		"servicePrice":    1,
	}
}

func (f fixture) book(t *testing.T) models.Booking {
	t.Helper()
	rec := testutil.Serve(f.routes, testutil.JSONRequest(t, http.MethodPost, "/", f.body("2030-06-02", "2:00 PM")))
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var b models.Booking
	testutil.Decode(t, rec, &b)
	return b
}

func (f fixture) admin(t *testing.T, method, target string, body any) *http.Request {
	return testutil.Bearer(testutil.JSONRequest(t, method, target, body), f.token)
}

func TestCreate(t *testing.T) {
	f := setup(t)
	b := f.book(t)

	if !referencePattern.MatchString(b.BookingReference) {
		t.Errorf("reference %q does not match %s", b.BookingReference, referencePattern)
	}
	if b.Status != models.BookingPending {
		t.Errorf("status = %q, want pending", b.Status)
	}
	if b.Email != "lena@example.com" || b.BookingTime != "14:00" {
		t.Errorf("booking = %+v", b)
	}
	// the listed price wins over the submitted one
	if b.ServiceDuration != 90 || b.ServicePrice != 100 {
		t.Errorf("duration/price = %d/%v, want 90/100", b.ServiceDuration, b.ServicePrice)
	}
	if !b.ScheduledAt.Equal(time.Date(2030, 6, 2, 14, 0, 0, 0, time.UTC)) {
		t.Errorf("scheduledAt = %v", b.ScheduledAt)
	}
	if b.ServiceCategory != f.service.Category {
		t.Errorf("serviceCategory = %s, want %s", b.ServiceCategory.Hex(), f.service.Category.Hex())
	}
}

func TestCreate_Rejections(t *testing.T) {
	f := setup(t)

	yesterday := f.body("2030-05-31", "15:00")
	earlierToday := f.body("2030-06-01", "09:59")
	badDate := f.body("31/05/2030", "15:00")
	unknownService := f.body("2030-06-02", "10:00")
	unknownService["serviceId"] = primitive.NewObjectID().Hex()
	badDuration := f.body("2030-06-02", "10:00")
	badDuration["serviceDuration"] = 45
	noEmail := f.body("2030-06-02", "10:00")
	delete(noEmail, "email")
	noAddress := f.body("2030-06-02", "10:00")
	noAddress["address"] = "  "

	tests := []struct {
		name string
		body map[string]any
		msg  string
	}{
		{"yesterday", yesterday, pastMessage},
		{"earlier today", earlierToday, pastMessage},
		{"bad date", badDate, "Booking date must be YYYY-MM-DD"},
		{"unknown service", unknownService, "Service not found"},
		{"duration not offered", badDuration, "Service duration is not offered"},
		{"missing email", noEmail, "Email is required."},
		{"missing address", noAddress, "Address is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Serve(f.routes, testutil.JSONRequest(t, http.MethodPost, "/", tt.body))
			testutil.AssertStatus(t, rec, http.StatusBadRequest)
			env := testutil.Decode(t, rec, nil)
			if env.Success || env.Message != tt.msg {
				t.Errorf("envelope = %+v, want message %q", env, tt.msg)
			}
		})
	}
}

func TestStatusFlow(t *testing.T) {
	f := setup(t)
	b := f.book(t)
	target := "/" + b.ID.Hex()

	rec := testutil.Serve(f.routes, f.admin(t, http.MethodPut, target+"/status", map[string]string{"status": "confirmed"}))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var got models.Booking
	rec = testutil.Serve(f.routes, f.admin(t, http.MethodGet, target, nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.Decode(t, rec, &got)
	if got.Status != models.BookingConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}

	rec = testutil.Serve(f.routes, f.admin(t, http.MethodPut, target+"/status", map[string]string{"status": "archived"}))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	if env := testutil.Decode(t, rec, nil); env.Message != "Invalid status" {
		t.Errorf("message = %q, want Invalid status", env.Message)
	}

	// the generic update leaves status alone
	rec = testutil.Serve(f.routes, f.admin(t, http.MethodPut, target, map[string]any{"status": "cancelled", "notes": "Allergic to lavender"}))
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.Decode(t, rec, &got)
	if got.Status != models.BookingConfirmed || got.Notes != "Allergic to lavender" {
		t.Errorf("booking = %+v", got)
	}

	rec = testutil.Serve(f.routes, f.admin(t, http.MethodPut, "/"+primitive.NewObjectID().Hex()+"/status", map[string]string{"status": "confirmed"}))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestUpdate_Reschedule(t *testing.T) {
	f := setup(t)
	b := f.book(t)
	target := "/" + b.ID.Hex()

	rec := testutil.Serve(f.routes, f.admin(t, http.MethodPut, target, map[string]any{"bookingTime": "16:30"}))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var got models.Booking
	testutil.Decode(t, rec, &got)
	if !got.ScheduledAt.Equal(time.Date(2030, 6, 2, 16, 30, 0, 0, time.UTC)) {
		t.Errorf("scheduledAt = %v", got.ScheduledAt)
	}

	rec = testutil.Serve(f.routes, f.admin(t, http.MethodPut, target, map[string]any{"bookingDate": "2030-05-01"}))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestAdminRoutes(t *testing.T) {
	f := setup(t)
	b := f.book(t)
	f.book(t)

	testutil.AssertStatus(t, testutil.Serve(f.routes, testutil.JSONRequest(t, http.MethodGet, "/", nil)), http.StatusUnauthorized)

	rec := testutil.Serve(f.routes, f.admin(t, http.MethodGet, "/?limit=1&search=lena", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var items []models.Booking
	env := testutil.Decode(t, rec, &items)
	if len(items) != 1 || env.Pagination.Total != 2 || !env.Pagination.HasNext {
		t.Errorf("items = %d, pagination = %+v", len(items), env.Pagination)
	}

	rec = testutil.Serve(f.routes, f.admin(t, http.MethodGet, "/?status=confirmed", nil))
	if env := testutil.Decode(t, rec, nil); env.Pagination.Total != 0 {
		t.Errorf("confirmed total = %d, want 0", env.Pagination.Total)
	}

	rec = testutil.Serve(f.routes, f.admin(t, http.MethodGet, "/?status=Pending", nil))
	if env := testutil.Decode(t, rec, nil); env.Pagination.Total != 2 {
		t.Errorf("pending total = %d, want 2", env.Pagination.Total)
	}

	rec = testutil.Serve(f.routes, f.admin(t, http.MethodGet, "/?status=archived", nil))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	if env := testutil.Decode(t, rec, nil); env.Message != "Invalid status" {
		t.Errorf("message = %q, want Invalid status", env.Message)
	}

	rec = testutil.Serve(f.routes, testutil.JSONRequest(t, http.MethodGet, "/reference/"+b.BookingReference, nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	testutil.AssertStatus(t, testutil.Serve(f.routes, f.admin(t, http.MethodGet, "/not-an-id", nil)), http.StatusNotFound)

	testutil.AssertStatus(t, testutil.Serve(f.routes, f.admin(t, http.MethodDelete, "/"+b.ID.Hex(), nil)), http.StatusOK)
	rec = testutil.Serve(f.routes, testutil.JSONRequest(t, http.MethodGet, "/reference/"+b.BookingReference, nil))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	if env := testutil.Decode(t, rec, nil); env.Message != "Booking not found" {
		t.Errorf("message = %q", env.Message)
	}
}
