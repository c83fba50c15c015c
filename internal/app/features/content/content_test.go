package content

import (
	"net/http"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/stratawell/internal/app/features/errors"
	contentstore "github.com/dalemusser/stratawell/internal/app/store/content"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/stratawell/internal/testutil"
	"go.uber.org/zap"
)

func TestHomepage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	authn := testutil.Authenticator(t)
	token := testutil.AdminToken(t, authn)
	h := NewHomepageHandler(contentstore.NewHomepage(db), errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	routes := Routes(h, authn)

	var doc models.HomepageContent
	rec := testutil.Serve(routes, testutil.JSONRequest(t, http.MethodGet, "/", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.Decode(t, rec, &doc)
	if doc.Hero.Title != models.DefaultHomepage().Hero.Title {
		t.Errorf("fresh Hero.Title = %q, want default", doc.Hero.Title)
	}

	doc.Hero.Title = "  Breathe  "
	doc.Intro.Content = `<p>Hello</p><script>alert(1)</script>`
	doc.CTA.Content = "Book today\nWalk-ins welcome"
	doc.WhyChooseUs = []models.Feature{{Title: "Experts", Description: "<b>10</b> years"}, {}}
	rec = testutil.Serve(routes, testutil.Bearer(testutil.JSONRequest(t, http.MethodPut, "/", doc), token))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var saved models.HomepageContent
	testutil.Decode(t, rec, &saved)
	if saved.Hero.Title != "Breathe" {
		t.Errorf("Hero.Title = %q", saved.Hero.Title)
	}
	if strings.Contains(saved.Intro.Content, "script") {
		t.Errorf("Intro.Content not sanitized: %q", saved.Intro.Content)
	}
	if saved.CTA.Content != "<p>Book today<br>Walk-ins welcome</p>" {
		t.Errorf("CTA.Content = %q", saved.CTA.Content)
	}
	if len(saved.WhyChooseUs) != 1 || saved.WhyChooseUs[0].Description != "10 years" {
		t.Errorf("WhyChooseUs = %+v", saved.WhyChooseUs)
	}
	if saved.ID != doc.ID {
		t.Error("save should keep the singleton identity")
	}

	doc.Hero.Image = "javascript:alert(1)"
	rec = testutil.Serve(routes, testutil.Bearer(testutil.JSONRequest(t, http.MethodPut, "/", doc), token))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	testutil.AssertStatus(t, testutil.Serve(routes, testutil.JSONRequest(t, http.MethodPut, "/", doc)), http.StatusUnauthorized)

	rec = testutil.Serve(routes, testutil.Bearer(testutil.JSONRequest(t, http.MethodPost, "/reset", nil), token))
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.Decode(t, rec, &saved)
	if saved.Hero.Title != models.DefaultHomepage().Hero.Title {
		t.Errorf("after reset Hero.Title = %q", saved.Hero.Title)
	}
}

func TestAbout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	authn := testutil.Authenticator(t)
	token := testutil.AdminToken(t, authn)
	h := NewAboutHandler(contentstore.NewAbout(db), errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	routes := Routes(h, authn)

	body := models.DefaultAbout()
	body.Story.Content = "We opened in 2012."
	body.Team = []models.TeamMember{{Name: "Lina", Role: "Therapist", Image: "/uploads/lina.jpg"}, {Role: "nameless"}}
	rec := testutil.Serve(routes, testutil.Bearer(testutil.JSONRequest(t, http.MethodPut, "/", body), token))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var got models.AboutContent
	rec = testutil.Serve(routes, testutil.JSONRequest(t, http.MethodGet, "/", nil))
	testutil.Decode(t, rec, &got)
	if got.Story.Content != "<p>We opened in 2012.</p>" {
		t.Errorf("Story.Content = %q", got.Story.Content)
	}
	if len(got.Team) != 1 || got.Team[0].Name != "Lina" {
		t.Errorf("Team = %+v", got.Team)
	}
}
