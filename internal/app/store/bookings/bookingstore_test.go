package bookings

import (
	"regexp"
	"testing"
	"time"

	"github.com/dalemusser/stratawell/internal/app/system/paging"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/stratawell/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var referencePattern = regexp.MustCompile(`^BK\d+\d{3}$`)

func ptr[T any](v T) *T { return &v }

func sampleInput(name, email string) CreateInput {
	at := time.Now().Add(72 * time.Hour)
	return CreateInput{
		Name:            name,
		Email:           email,
		Mobile:          "0800 123",
		Address:         "1 Spa Road",
		BookingDate:     time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
		BookingTime:     "10:30",
		ScheduledAt:     at,
		ServiceCategory: primitive.NewObjectID(),
		ServiceID:       primitive.NewObjectID(),
		ServiceDuration: 60,
		ServicePrice:    75,
	}
}

func TestNewReference(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	for i := 0; i < 50; i++ {
		ref := NewReference(at)
		if !referencePattern.MatchString(ref) {
			t.Fatalf("NewReference() = %q, does not match %s", ref, referencePattern)
		}
		if len(ref) != len("BK1700000000123")+3 {
			t.Fatalf("NewReference() = %q, want 3-digit suffix", ref)
		}
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, err := store.Create(ctx, sampleInput("Ana", " ANA@Example.com "))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.Status != models.BookingPending {
		t.Errorf("Status = %q, want pending", b.Status)
	}
	if b.Email != "ana@example.com" {
		t.Errorf("Email = %q", b.Email)
	}
	if !referencePattern.MatchString(b.BookingReference) {
		t.Errorf("BookingReference = %q", b.BookingReference)
	}

	got, err := store.GetByReference(ctx, b.BookingReference)
	if err != nil {
		t.Fatalf("GetByReference() error = %v", err)
	}
	if got.ID != b.ID {
		t.Errorf("GetByReference() ID = %v, want %v", got.ID, b.ID)
	}
}

func TestStore_CreateRetriesReferenceCollision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// a frozen clock makes every reference share the timestamp; only the
	// random suffix separates them
	frozen := time.UnixMilli(1700000000000)
	store.now = func() time.Time { return frozen }

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		b, err := store.Create(ctx, sampleInput("Guest", "guest@example.com"))
		if err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		if seen[b.BookingReference] {
			t.Fatalf("duplicate reference %q", b.BookingReference)
		}
		seen[b.BookingReference] = true
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, err := store.Create(ctx, sampleInput("Ana", "ana@example.com"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.UpdateStatus(ctx, b.ID, "Confirmed")
	if err != nil {
		t.Fatalf("UpdateStatus(confirmed) error = %v", err)
	}
	if got.Status != models.BookingConfirmed {
		t.Errorf("Status = %q, want confirmed", got.Status)
	}

	// transitions are unconstrained
	if _, err := store.UpdateStatus(ctx, b.ID, models.BookingPending); err != nil {
		t.Errorf("UpdateStatus(back to pending) error = %v", err)
	}

	if _, err := store.UpdateStatus(ctx, b.ID, "archived"); err != ErrInvalidStatus {
		t.Errorf("UpdateStatus(archived) error = %v, want ErrInvalidStatus", err)
	}
	if _, err := store.UpdateStatus(ctx, primitive.NewObjectID(), models.BookingCancelled); err != mongo.ErrNoDocuments {
		t.Errorf("UpdateStatus(missing) error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_UpdateLeavesStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, err := store.Create(ctx, sampleInput("Ana", "ana@example.com"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := store.Update(ctx, b.ID, UpdateInput{Notes: ptr(" allergic to nuts ")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Notes != "allergic to nuts" || got.Status != models.BookingPending || got.BookingReference != b.BookingReference {
		t.Errorf("Update() = notes %q status %q ref %q", got.Notes, got.Status, got.BookingReference)
	}
}

func TestStore_ListSearchAndStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ana, _ := store.Create(ctx, sampleInput("Ana", "ana@example.com"))
	if _, err := store.Create(ctx, sampleInput("Ben", "ben@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, sampleInput("Cleo", "cleo@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.UpdateStatus(ctx, ana.ID, models.BookingCancelled); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   int64
	}{
		{"all", ListFilter{}, 3},
		{"search by name case-insensitive", ListFilter{Search: "BEN"}, 1},
		{"search by reference", ListFilter{Search: ana.BookingReference}, 1},
		{"search regex chars are literal", ListFilter{Search: ".*"}, 0},
		{"status", ListFilter{Status: models.BookingCancelled}, 1},
		{"status pending", ListFilter{Status: models.BookingPending}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := store.List(ctx, tt.filter, paging.New(1, 10))
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if total != tt.want {
				t.Errorf("List() total = %d, want %d", total, tt.want)
			}
		})
	}

	page, total, err := store.List(ctx, ListFilter{}, paging.New(2, 2))
	if err != nil {
		t.Fatalf("List(page 2) error = %v", err)
	}
	if total != 3 || len(page) != 1 {
		t.Errorf("List(page 2) = %d items, total %d; want 1, 3", len(page), total)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, err := store.Create(ctx, sampleInput("Ana", "ana@example.com"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, b.ID); err != mongo.ErrNoDocuments {
		t.Errorf("second Delete() error = %v, want ErrNoDocuments", err)
	}
}
