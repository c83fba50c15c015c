package testimonials

import (
	"testing"

	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/stratawell/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func ptr[T any](v T) *T { return &v }

func TestStore_CreateRating(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name       string
		rating     int
		wantRating int
		wantErr    error
	}{
		{"default", 0, models.DefaultRating, nil},
		{"low", 1, 1, nil},
		{"high", 5, 5, nil},
		{"too high", 6, 0, ErrInvalidRating},
		{"negative", -1, 0, ErrInvalidRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Create(ctx, CreateInput{Name: "Ana", Quote: "Lovely", Rating: tt.rating})
			if err != tt.wantErr {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got.Rating != tt.wantRating {
				t.Errorf("Rating = %d, want %d", got.Rating, tt.wantRating)
			}
		})
	}
}

func TestStore_UpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tm, err := store.Create(ctx, CreateInput{Name: "Ana", Quote: "Lovely"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Update(ctx, tm.ID, UpdateInput{Rating: ptr(9)}); err != ErrInvalidRating {
		t.Errorf("Update(rating 9) error = %v, want ErrInvalidRating", err)
	}
	got, err := store.Update(ctx, tm.ID, UpdateInput{Quote: ptr("  Wonderful  "), Rating: ptr(4)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Quote != "Wonderful" || got.Rating != 4 {
		t.Errorf("Update() = quote %q rating %d", got.Quote, got.Rating)
	}

	list, err := store.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %d items, err %v", len(list), err)
	}

	if err := store.Delete(ctx, tm.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, tm.ID); err != mongo.ErrNoDocuments {
		t.Errorf("second Delete() error = %v, want ErrNoDocuments", err)
	}
}
