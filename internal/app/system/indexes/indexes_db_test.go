package indexes_test

import (
	"testing"

	"github.com/dalemusser/stratawell/internal/app/system/indexes"
	"github.com/dalemusser/stratawell/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// SetupTestDB already ran EnsureAll once; a second run must be a no-op.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}

	cur, err := db.Collection("bookings").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("Indexes().List() error = %v", err)
	}
	var got []bson.M
	if err := cur.All(ctx, &got); err != nil {
		t.Fatalf("cursor All() error = %v", err)
	}
	found := false
	for _, ix := range got {
		if ix["name"] == "uniq_bookings_reference" {
			found = true
			if ix["unique"] != true {
				t.Error("uniq_bookings_reference should be unique")
			}
		}
	}
	if !found {
		t.Error("uniq_bookings_reference not created")
	}
}

func TestEnsureAll_UniqueSlugEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := db.Collection("categories")
	if _, err := c.InsertOne(ctx, bson.M{"name": "A", "name_ci": "a", "slug": "same"}); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	_, err := c.InsertOne(ctx, bson.M{"name": "B", "name_ci": "b", "slug": "same"})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("second insert error = %v, want duplicate key", err)
	}
}
