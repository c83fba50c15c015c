package storeutil

import (
	"testing"

	"github.com/dalemusser/stratawell/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPaginate(t *testing.T) {
	opts := Paginate(paging.New(3, 20))
	if opts.Limit == nil || *opts.Limit != 20 {
		t.Errorf("Limit = %v, want 20", opts.Limit)
	}
	if opts.Skip == nil || *opts.Skip != 40 {
		t.Errorf("Skip = %v, want 40", opts.Skip)
	}
}

func TestSearchFilter(t *testing.T) {
	if f := SearchFilter("   ", "name"); f != nil {
		t.Errorf("SearchFilter(blank) = %v, want nil", f)
	}

	f := SearchFilter("a.b", "name", "email")
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("SearchFilter() $or = %v, want 2 clauses", f["$or"])
	}
	clause := or[0].(bson.M)["name"].(bson.M)
	if clause["$regex"] != `a\.b` {
		t.Errorf("$regex = %v, want escaped pattern", clause["$regex"])
	}
	if clause["$options"] != "i" {
		t.Errorf("$options = %v, want i", clause["$options"])
	}
}

func TestMerge(t *testing.T) {
	if got := Merge(nil, bson.M{}); len(got) != 0 {
		t.Errorf("Merge(empty) = %v, want {}", got)
	}

	one := bson.M{"a": 1}
	if got := Merge(nil, one); got["a"] != 1 {
		t.Errorf("Merge(single) = %v, want %v", got, one)
	}

	got := Merge(one, bson.M{"b": 2})
	and, ok := got["$and"].(bson.A)
	if !ok || len(and) != 2 {
		t.Errorf("Merge(two) = %v, want $and of 2", got)
	}
}
