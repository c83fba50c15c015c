// Package bookingtime turns the date and time typed into the booking form
// into instants in the business time zone.
package bookingtime

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidDate = errors.New("Booking date must be YYYY-MM-DD")
	ErrInvalidTime = errors.New("Booking time must be HH:MM or H:MM AM/PM")
)

var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm", "15:04:05"}

// Slot is a parsed booking date and time.
type Slot struct {
	Date  time.Time // midnight of the day in loc
	Clock string    // canonical 24h "15:04"
	At    time.Time // the combined instant
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. For RFC 3339 only the calendar
// date is kept; the offset is ignored.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var d time.Time
	var err error
	if len(raw) > len("2006-01-02") {
		d, err = time.Parse(time.RFC3339, raw)
	} else {
		d, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), nil
}

// ParseClock accepts 24h "15:04" or 12h "3:04 PM" and returns the hour,
// minute, and the canonical "15:04" form.
func ParseClock(raw string) (hour, minute int, canonical string, err error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range clockLayouts {
		if t, perr := time.Parse(layout, raw); perr == nil {
			return t.Hour(), t.Minute(), t.Format("15:04"), nil
		}
	}
	return 0, 0, "", ErrInvalidTime
}

// Parse combines a booking date and time in loc.
func Parse(date, clock string, loc *time.Location) (Slot, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := ParseDate(date, loc)
	if err != nil {
		return Slot{}, err
	}
	h, m, canonical, err := ParseClock(clock)
	if err != nil {
		return Slot{}, err
	}
	return Slot{
		Date:  d,
		Clock: canonical,
		At:    time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, loc),
	}, nil
}

// InPast reports whether the slot starts before now.
func (s Slot) InPast(now time.Time) bool {
	return s.At.Before(now)
}
