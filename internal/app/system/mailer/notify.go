// internal/app/system/mailer/notify.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/domain/models"
	"go.uber.org/zap"
)

// Notifier emails the business when visitors book or register. A nil
// Notifier, or one without a recipient, does nothing.
type Notifier struct {
	mailer   *Mailer
	to       string
	siteName string
	loc      *time.Location
	log      *zap.Logger

	// run executes a delivery; deliveries happen off the request goroutine.
	run func(func())
}

// NewNotifier returns a Notifier, or nil when mail or the recipient is not
// configured.
func NewNotifier(m *Mailer, to, siteName string, loc *time.Location, log *zap.Logger) *Notifier {
	if m == nil || strings.TrimSpace(to) == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		mailer:   m,
		to:       strings.TrimSpace(to),
		siteName: siteName,
		loc:      loc,
		log:      log,
		run:      func(f func()) { go f() },
	}
}

func (n *Notifier) dispatch(email Email) {
	n.run(func() {
		// Send logs its own failure
		_ = n.mailer.Send(email)
	})
}

var bookingHTML = template.Must(template.New("booking").Parse(`<h2>New booking {{.Reference}}</h2>
<table>
<tr><td>Name</td><td>{{.Name}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
<tr><td>Mobile</td><td>{{.Mobile}}</td></tr>
<tr><td>Service</td><td>{{.Service}} ({{.Duration}} min, {{.Price}})</td></tr>
<tr><td>When</td><td>{{.When}}</td></tr>
{{if .Notes}}<tr><td>Notes</td><td>{{.Notes}}</td></tr>{{end}}
</table>`))

var registrationHTML = template.Must(template.New("registration").Parse(`<h2>New membership registration</h2>
<table>
<tr><td>Name</td><td>{{.Name}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
<tr><td>Mobile</td><td>{{.Mobile}}</td></tr>
<tr><td>Plan</td><td>{{.Plan}}</td></tr>
</table>`))

type bookingData struct {
	Reference, Name, Email, Mobile, Service, Price, When, Notes string
	Duration                                                    int
}

// BookingEmail renders the notice for a new booking.
func BookingEmail(siteName string, b models.Booking, serviceTitle string, loc *time.Location) Email {
	d := bookingData{
		Reference: b.BookingReference,
		Name:      b.Name,
		Email:     b.Email,
		Mobile:    b.Mobile,
		Service:   serviceTitle,
		Duration:  b.ServiceDuration,
		Price:     fmt.Sprintf("%.2f", b.ServicePrice),
		When:      b.ScheduledAt.In(loc).Format("Mon 2 Jan 2006 15:04"),
		Notes:     b.Notes,
	}
	text := fmt.Sprintf("New booking %s\n\nName: %s\nEmail: %s\nMobile: %s\nService: %s (%d min, %s)\nWhen: %s\n",
		d.Reference, d.Name, d.Email, d.Mobile, d.Service, d.Duration, d.Price, d.When)
	if d.Notes != "" {
		text += "Notes: " + d.Notes + "\n"
	}
	var buf bytes.Buffer
	_ = bookingHTML.Execute(&buf, d)
	return Email{
		Subject:  fmt.Sprintf("[%s] New booking %s", siteName, d.Reference),
		TextBody: text,
		HTMLBody: buf.String(),
	}
}

// RegistrationEmail renders the notice for a new member registration.
func RegistrationEmail(siteName string, reg models.MemberRegistration, planName string) Email {
	data := struct{ Name, Email, Mobile, Plan string }{reg.Name, reg.Email, reg.Mobile, planName}
	var buf bytes.Buffer
	_ = registrationHTML.Execute(&buf, data)
	return Email{
		Subject: fmt.Sprintf("[%s] New membership registration: %s", siteName, reg.Name),
		TextBody: fmt.Sprintf("New membership registration\n\nName: %s\nEmail: %s\nMobile: %s\nPlan: %s\n",
			reg.Name, reg.Email, reg.Mobile, planName),
		HTMLBody: buf.String(),
	}
}

// BookingCreated sends the new booking notice.
func (n *Notifier) BookingCreated(b models.Booking, serviceTitle string) {
	if n == nil {
		return
	}
	email := BookingEmail(n.siteName, b, serviceTitle, n.loc)
	email.To = n.to
	n.dispatch(email)
}

// RegistrationCreated sends the new registration notice.
func (n *Notifier) RegistrationCreated(reg models.MemberRegistration, planName string) {
	if n == nil {
		return
	}
	email := RegistrationEmail(n.siteName, reg, planName)
	email.To = n.to
	n.dispatch(email)
}
