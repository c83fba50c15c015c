package services

import (
	"net/http"
	"testing"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	categorystore "github.com/dalemusser/stratawell/internal/app/store/categories"
	servicestore "github.com/dalemusser/stratawell/internal/app/store/services"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/stratawell/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	routes   http.Handler
	token    string
	category models.Category
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	authn := testutil.Authenticator(t)
	cats := categorystore.New(db, categorystore.CollectionCategories)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	cat, err := cats.Create(ctx, categorystore.CreateInput{Name: "Massage"})
	if err != nil {
		t.Fatalf("Create category error = %v", err)
	}

	h := NewHandler(servicestore.New(db), cats, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	return fixture{routes: Routes(h, authn), token: testutil.AdminToken(t, authn), category: cat}
}

func (f fixture) create(t *testing.T, body map[string]any) models.Service {
	t.Helper()
	req := testutil.Bearer(testutil.JSONRequest(t, http.MethodPost, "/", body), f.token)
	rec := testutil.Serve(f.routes, req)
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var s models.Service
	testutil.Decode(t, rec, &s)
	return s
}

func TestCreate_ByCategorySlugOrID(t *testing.T) {
	f := setup(t)

	bySlug := f.create(t, map[string]any{
		"title":     "Deep Tissue Massage",
		"category":  "massage",
		"shortDesc": "Firm pressure",
		"durations": []map[string]any{{"minutes": 60, "price": 80}},
	})
	if bySlug.Slug != "deep-tissue-massage" || bySlug.Category != f.category.ID {
		t.Errorf("service = %+v", bySlug)
	}
	if len(bySlug.Durations) != 1 || bySlug.Durations[0].Price != 80 {
		t.Errorf("durations = %+v", bySlug.Durations)
	}

	byID := f.create(t, map[string]any{
		"title":     "Swedish Massage",
		"category":  f.category.ID.Hex(),
		"shortDesc": "Gentle",
	})
	if byID.Category != f.category.ID {
		t.Errorf("category = %s, want %s", byID.Category.Hex(), f.category.ID.Hex())
	}
}

func TestCreate_Rejections(t *testing.T) {
	f := setup(t)
	f.create(t, map[string]any{"title": "Reflexology", "category": "massage", "shortDesc": "Feet"})

	tests := []struct {
		name string
		body map[string]any
		msg  string
	}{
		{"missing title", map[string]any{"category": "massage", "shortDesc": "x"}, "Title is required."},
		{"missing short desc", map[string]any{"title": "A", "category": "massage"}, "Short description is required."},
		{"unknown category", map[string]any{"title": "A", "category": "nails", "shortDesc": "x"}, "Category not found"},
		{"duplicate", map[string]any{"title": "Reflexology", "category": "massage", "shortDesc": "x"}, "Service with this slug already exists"},
		{"bad duration", map[string]any{"title": "B", "category": "massage", "shortDesc": "x", "durations": []map[string]any{{"minutes": 0, "price": 10}}}, "Duration 1 must have a positive number of minutes."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.Bearer(testutil.JSONRequest(t, http.MethodPost, "/", tt.body), f.token)
			rec := testutil.Serve(f.routes, req)
			testutil.AssertStatus(t, rec, http.StatusBadRequest)
			if env := testutil.Decode(t, rec, nil); env.Message != tt.msg {
				t.Errorf("message = %q, want %q", env.Message, tt.msg)
			}
		})
	}
}

func TestList_Filters(t *testing.T) {
	f := setup(t)
	f.create(t, map[string]any{"title": "Hot Stone", "category": "massage", "shortDesc": "x", "featured": true})
	f.create(t, map[string]any{"title": "Thai", "category": "massage", "shortDesc": "x"})

	count := func(target string) int {
		var items []models.Service
		rec := testutil.Serve(f.routes, testutil.JSONRequest(t, http.MethodGet, target, nil))
		testutil.AssertStatus(t, rec, http.StatusOK)
		testutil.Decode(t, rec, &items)
		return len(items)
	}

	if got := count("/"); got != 2 {
		t.Errorf("all = %d, want 2", got)
	}
	if got := count("/?featured=true"); got != 1 {
		t.Errorf("featured = %d, want 1", got)
	}
	if got := count("/?category=massage"); got != 2 {
		t.Errorf("by slug = %d, want 2", got)
	}
	if got := count("/?category=" + f.category.ID.Hex()); got != 2 {
		t.Errorf("by id = %d, want 2", got)
	}
	if got := count("/?category=nails"); got != 0 {
		t.Errorf("unknown category = %d, want 0", got)
	}

	rec := testutil.Serve(f.routes, testutil.JSONRequest(t, http.MethodGet, "/admin", nil))
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestUpdateDelete(t *testing.T) {
	f := setup(t)
	s := f.create(t, map[string]any{"title": "Thai", "category": "massage", "shortDesc": "x"})

	req := testutil.Bearer(testutil.JSONRequest(t, http.MethodPut, "/thai", map[string]any{"title": "Thai Massage"}), f.token)
	rec := testutil.Serve(f.routes, req)
	testutil.AssertStatus(t, rec, http.StatusOK)
	var updated models.Service
	testutil.Decode(t, rec, &updated)
	if updated.Slug != "thai-massage" || updated.ShortDesc != "x" {
		t.Errorf("updated = %+v", updated)
	}

	req = testutil.Bearer(testutil.JSONRequest(t, http.MethodPut, "/thai-massage", map[string]any{"category": "nails"}), f.token)
	testutil.AssertStatus(t, testutil.Serve(f.routes, req), http.StatusBadRequest)

	req = testutil.Bearer(testutil.JSONRequest(t, http.MethodDelete, "/"+s.ID.Hex(), nil), f.token)
	testutil.AssertStatus(t, testutil.Serve(f.routes, req), http.StatusOK)

	rec = testutil.Serve(f.routes, testutil.JSONRequest(t, http.MethodGet, "/thai-massage", nil))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	if env := testutil.Decode(t, rec, nil); env.Message != "Service not found" {
		t.Errorf("message = %q", env.Message)
	}
}
