package articles

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	articlestore "github.com/dalemusser/stratawell/internal/app/store/articles"
	categorystore "github.com/dalemusser/stratawell/internal/app/store/categories"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/stratawell/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	routes http.Handler
	token  string
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	authn := testutil.Authenticator(t)
	cats := categorystore.New(db, categorystore.CollectionArticleCategories)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := cats.Create(ctx, categorystore.CreateInput{Name: "Wellness Tips"}); err != nil {
		t.Fatalf("Create category error = %v", err)
	}

	h := NewHandler(articlestore.New(db), cats, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	return fixture{routes: Routes(h, authn), token: testutil.AdminToken(t, authn)}
}

func (f fixture) post(t *testing.T, title string, published bool, tags ...string) models.Article {
	t.Helper()
	req := testutil.Bearer(testutil.JSONRequest(t, http.MethodPost, "/", map[string]any{
		"title":     title,
		"excerpt":   "Short summary",
		"content":   "Breathe in. Breathe out.",
		"category":  "wellness-tips",
		"author":    "Mara",
		"published": published,
		"tags":      tags,
	}), f.token)
	rec := testutil.Serve(f.routes, req)
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var a models.Article
	testutil.Decode(t, rec, &a)
	return a
}

func (f fixture) get(t *testing.T, target string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.JSONRequest(t, http.MethodGet, target, nil)
	if admin {
		testutil.Bearer(req, f.token)
	}
	return testutil.Serve(f.routes, req)
}

func TestCreate(t *testing.T) {
	f := setup(t)
	a := f.post(t, "Morning Stretch Routine", true)

	if a.Slug != "morning-stretch-routine" {
		t.Errorf("slug = %q", a.Slug)
	}
	if a.Content != "<p>Breathe in. Breathe out.</p>" {
		t.Errorf("content = %q", a.Content)
	}
	if a.ReadTime != 1 || a.PublishedAt == nil {
		t.Errorf("readTime = %d, publishedAt = %v", a.ReadTime, a.PublishedAt)
	}

	req := testutil.Bearer(testutil.JSONRequest(t, http.MethodPost, "/", map[string]any{
		"title": "X", "excerpt": "e", "content": "c", "category": "nope", "author": "a",
	}), f.token)
	rec := testutil.Serve(f.routes, req)
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	if env := testutil.Decode(t, rec, nil); env.Message != "Category not found" {
		t.Errorf("message = %q", env.Message)
	}

	req = testutil.Bearer(testutil.JSONRequest(t, http.MethodPost, "/", map[string]any{
		"title": "X", "content": "c", "category": "wellness-tips", "author": "a",
	}), f.token)
	rec = testutil.Serve(f.routes, req)
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	if env := testutil.Decode(t, rec, nil); env.Message != "Excerpt is required." {
		t.Errorf("message = %q", env.Message)
	}
}

func TestPublicListHidesDrafts(t *testing.T) {
	f := setup(t)
	for i := 0; i < 3; i++ {
		f.post(t, fmt.Sprintf("Published %d", i), true, "sleep")
	}
	f.post(t, "Draft", false, "sleep")

	rec := f.get(t, "/?limit=2", false)
	testutil.AssertStatus(t, rec, http.StatusOK)
	var page []models.Article
	env := testutil.Decode(t, rec, &page)
	if len(page) != 2 || env.Pagination == nil {
		t.Fatalf("page = %d items, pagination = %v", len(page), env.Pagination)
	}
	if env.Pagination.Total != 3 || env.Pagination.TotalPages != 2 || !env.Pagination.HasNext || env.Pagination.HasPrev {
		t.Errorf("pagination = %+v", *env.Pagination)
	}

	var all []models.Article
	rec = f.get(t, "/admin", true)
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.Decode(t, rec, &all)
	if len(all) != 4 {
		t.Errorf("admin list = %d, want 4", len(all))
	}

	testutil.AssertStatus(t, f.get(t, "/draft", false), http.StatusNotFound)
	testutil.AssertStatus(t, f.get(t, "/admin/draft", true), http.StatusOK)
	testutil.AssertStatus(t, f.get(t, "/admin/draft", false), http.StatusUnauthorized)
}

func TestListFilters(t *testing.T) {
	f := setup(t)
	f.post(t, "Sleep Better", true, "sleep")
	f.post(t, "Eat Well", true, "food")

	count := func(target string) int64 {
		rec := f.get(t, target, false)
		testutil.AssertStatus(t, rec, http.StatusOK)
		env := testutil.Decode(t, rec, nil)
		return env.Pagination.Total
	}
	if got := count("/?tag=sleep"); got != 1 {
		t.Errorf("tag filter = %d, want 1", got)
	}
	if got := count("/?category=wellness-tips"); got != 2 {
		t.Errorf("category filter = %d, want 2", got)
	}
	if got := count("/?category=unknown"); got != 0 {
		t.Errorf("unknown category = %d, want 0", got)
	}
}

func TestCategoryRoutes(t *testing.T) {
	f := setup(t)
	f.post(t, "Sleep Better", true)
	f.post(t, "Hidden Draft", false)

	rec := f.get(t, "/category/relationship/some-slug", false)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	if env := testutil.Decode(t, rec, nil); env.Success || env.Message != "Category not found" {
		t.Errorf("envelope = %+v", env)
	}

	rec = f.get(t, "/category/relationship", false)
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = f.get(t, "/category/wellness-tips", false)
	testutil.AssertStatus(t, rec, http.StatusOK)
	if env := testutil.Decode(t, rec, nil); env.Pagination.Total != 1 {
		t.Errorf("category total = %d, want 1", env.Pagination.Total)
	}

	rec = f.get(t, "/category/wellness-tips/sleep-better", false)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = f.get(t, "/category/wellness-tips/hidden-draft", false)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	if env := testutil.Decode(t, rec, nil); env.Message != "Article not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	f := setup(t)
	a := f.post(t, "Draft Post", false)

	req := testutil.Bearer(testutil.JSONRequest(t, http.MethodPut, "/"+a.ID.Hex(), map[string]any{"published": true}), f.token)
	rec := testutil.Serve(f.routes, req)
	testutil.AssertStatus(t, rec, http.StatusOK)
	var updated models.Article
	testutil.Decode(t, rec, &updated)
	if !updated.Published || updated.PublishedAt == nil {
		t.Errorf("updated = %+v", updated)
	}

	req = testutil.Bearer(testutil.JSONRequest(t, http.MethodPut, "/draft-post", map[string]any{"title": ""}), f.token)
	testutil.AssertStatus(t, testutil.Serve(f.routes, req), http.StatusBadRequest)

	req = testutil.Bearer(testutil.JSONRequest(t, http.MethodDelete, "/draft-post", nil), f.token)
	testutil.AssertStatus(t, testutil.Serve(f.routes, req), http.StatusOK)
	testutil.AssertStatus(t, f.get(t, "/draft-post", false), http.StatusNotFound)
}
