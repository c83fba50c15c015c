package content

import (
	"strings"

	"github.com/dalemusser/stratawell/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratawell/internal/app/system/inputval"
	"github.com/dalemusser/stratawell/internal/domain/models"
)

// link checks an image or link field; empty is allowed.
func link(label, v string) string {
	if v != "" && !inputval.IsValidURLOrPath(v) {
		return label + " must be a URL starting with http:// or https://, or a path starting with /."
	}
	return ""
}

func first(msgs ...string) string {
	for _, m := range msgs {
		if m != "" {
			return m
		}
	}
	return ""
}

func trimHero(h *models.Hero) string {
	h.Title = strings.TrimSpace(h.Title)
	h.Subtitle = strings.TrimSpace(h.Subtitle)
	h.Image = strings.TrimSpace(h.Image)
	h.CTAText = strings.TrimSpace(h.CTAText)
	h.CTALink = strings.TrimSpace(h.CTALink)
	return first(link("Hero image", h.Image), link("Hero link", h.CTALink))
}

// prepareSection sanitizes the rich text body.
func prepareSection(label string, s *models.Section) string {
	s.Title = strings.TrimSpace(s.Title)
	s.Image = strings.TrimSpace(s.Image)
	s.Content = htmlsanitize.PrepareRichText(s.Content)
	return link(label+" image", s.Image)
}

func trimFeatures(fs []models.Feature) []models.Feature {
	out := make([]models.Feature, 0, len(fs))
	for _, f := range fs {
		f.Title = strings.TrimSpace(f.Title)
		f.Description = htmlsanitize.StripTags(f.Description)
		f.Icon = strings.TrimSpace(f.Icon)
		if f.Title == "" && f.Description == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func prepareHomepage(d *models.HomepageContent) string {
	d.FeaturedServicesTitle = strings.TrimSpace(d.FeaturedServicesTitle)
	d.WhyChooseUs = trimFeatures(d.WhyChooseUs)
	return first(
		trimHero(&d.Hero),
		prepareSection("Intro", &d.Intro),
		prepareSection("Call to action", &d.CTA),
	)
}

func prepareAbout(d *models.AboutContent) string {
	d.Values = trimFeatures(d.Values)
	team := make([]models.TeamMember, 0, len(d.Team))
	for _, m := range d.Team {
		m.Name = strings.TrimSpace(m.Name)
		m.Role = strings.TrimSpace(m.Role)
		m.Bio = htmlsanitize.StripTags(m.Bio)
		m.Image = strings.TrimSpace(m.Image)
		if m.Name == "" {
			continue
		}
		if msg := link("Team member image", m.Image); msg != "" {
			return msg
		}
		team = append(team, m)
	}
	d.Team = team
	return first(
		trimHero(&d.Hero),
		prepareSection("Story", &d.Story),
		prepareSection("Mission", &d.Mission),
	)
}
