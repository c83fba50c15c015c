package lookup

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParse(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name        string
		raw         string
		wantFilters int
		wantHasID   bool
	}{
		{"slug only", "body-scrubs", 1, false},
		{"hex id", oid.Hex(), 2, true},
		{"trimmed slug", "  hot-stone  ", 1, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Parse(tt.raw)
			if got := len(k.Filters()); got != tt.wantFilters {
				t.Errorf("Parse(%q).Filters() len = %d, want %d", tt.raw, got, tt.wantFilters)
			}
			if k.HasID != tt.wantHasID {
				t.Errorf("Parse(%q).HasID = %v, want %v", tt.raw, k.HasID, tt.wantHasID)
			}
		})
	}
}

func TestParse_SlugFirst(t *testing.T) {
	oid := primitive.NewObjectID()
	f := Parse(oid.Hex()).Filters()
	if _, ok := f[0]["slug"]; !ok {
		t.Errorf("first filter = %v, want slug filter", f[0])
	}
	if got := f[1]["_id"]; got != oid {
		t.Errorf("second filter _id = %v, want %v", got, oid)
	}
}

func TestIDOnly(t *testing.T) {
	if k := IDOnly("not-an-id"); !k.Empty() {
		t.Errorf("IDOnly(invalid) = %+v, want empty key", k)
	}

	oid := primitive.NewObjectID()
	k := IDOnly(oid.Hex())
	if !k.HasID || k.ID != oid {
		t.Errorf("IDOnly(valid) = %+v, want ID %v", k, oid)
	}
	if len(k.Filters()) != 1 {
		t.Errorf("IDOnly(valid).Filters() len = %d, want 1", len(k.Filters()))
	}
}

func TestBySlug(t *testing.T) {
	k := BySlug("spa")
	if k.HasID {
		t.Error("BySlug should not carry an id")
	}
	if k.String() != "spa" {
		t.Errorf("String() = %q, want %q", k.String(), "spa")
	}
}
