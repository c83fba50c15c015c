package memberships

import (
	"net/http"
	"testing"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	membershipstore "github.com/dalemusser/stratawell/internal/app/store/memberships"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/stratawell/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (http.Handler, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	authn := testutil.Authenticator(t)
	h := NewHandler(membershipstore.New(db), errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	return Routes(h, authn), testutil.AdminToken(t, authn)
}

func TestCRUD(t *testing.T) {
	routes, token := setup(t)
	admin := func(method, target string, body any) *http.Request {
		return testutil.Bearer(testutil.JSONRequest(t, method, target, body), token)
	}

	rec := testutil.Serve(routes, admin(http.MethodPost, "/", map[string]any{
		"name": "Gold", "price": 120, "billingCycle": "Monthly", "perks": []string{"Sauna", " ", "Sauna"}, "order": 2,
	}))
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var gold models.Membership
	testutil.Decode(t, rec, &gold)
	if gold.BillingCycle != models.BillingMonthly || len(gold.Perks) != 1 {
		t.Errorf("membership = %+v", gold)
	}

	testutil.Serve(routes, admin(http.MethodPost, "/", map[string]any{"name": "Silver", "price": 80, "billingCycle": "yearly", "order": 1}))

	var list []models.Membership
	rec = testutil.Serve(routes, testutil.JSONRequest(t, http.MethodGet, "/", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.Decode(t, rec, &list)
	if len(list) != 2 || list[0].Name != "Silver" {
		t.Errorf("list = %+v, want Silver first", list)
	}

	rec = testutil.Serve(routes, admin(http.MethodPut, "/"+gold.ID.Hex(), map[string]any{"billingCycle": "weekly"}))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	rec = testutil.Serve(routes, admin(http.MethodPut, "/"+gold.ID.Hex(), map[string]any{"price": 150}))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var updated models.Membership
	testutil.Decode(t, rec, &updated)
	if updated.Price != 150 || updated.Name != "Gold" {
		t.Errorf("updated = %+v", updated)
	}

	testutil.AssertStatus(t, testutil.Serve(routes, admin(http.MethodDelete, "/"+gold.ID.Hex(), nil)), http.StatusOK)
	rec = testutil.Serve(routes, testutil.JSONRequest(t, http.MethodGet, "/"+gold.ID.Hex(), nil))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	if env := testutil.Decode(t, rec, nil); env.Message != "Membership not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestCreate_Validation(t *testing.T) {
	routes, token := setup(t)

	tests := []struct {
		name string
		body map[string]any
		msg  string
	}{
		{"missing name", map[string]any{"price": 10, "billingCycle": "monthly"}, "Name is required."},
		{"bad cycle", map[string]any{"name": "X", "billingCycle": "weekly"}, "Billing cycle must be one of: monthly, yearly, one-time."},
		{"negative price", map[string]any{"name": "X", "price": -1, "billingCycle": "monthly"}, "Price cannot be negative."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.Bearer(testutil.JSONRequest(t, http.MethodPost, "/", tt.body), token)
			rec := testutil.Serve(routes, req)
			testutil.AssertStatus(t, rec, http.StatusBadRequest)
			if env := testutil.Decode(t, rec, nil); env.Message != tt.msg {
				t.Errorf("message = %q, want %q", env.Message, tt.msg)
			}
		})
	}

	rec := testutil.Serve(routes, testutil.JSONRequest(t, http.MethodPost, "/", map[string]any{"name": "X"}))
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}
