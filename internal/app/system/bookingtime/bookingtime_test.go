package bookingtime

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name      string
		date      string
		clock     string
		wantClock string
		wantAt    time.Time
		wantErr   error
	}{
		{"24h", "2030-03-14", "14:30", "14:30", time.Date(2030, 3, 14, 14, 30, 0, 0, loc), nil},
		{"12h pm", "2030-03-14", "2:30 PM", "14:30", time.Date(2030, 3, 14, 14, 30, 0, 0, loc), nil},
		{"12h compact", "2030-03-14", "9:05am", "09:05", time.Date(2030, 3, 14, 9, 5, 0, 0, loc), nil},
		{"rfc3339 date", "2030-03-14T00:00:00.000Z", "10:00", "10:00", time.Date(2030, 3, 14, 10, 0, 0, 0, loc), nil},
		{"bad date", "14/03/2030", "10:00", "", time.Time{}, ErrInvalidDate},
		{"bad clock", "2030-03-14", "noon", "", time.Time{}, ErrInvalidTime},
		{"hour out of range", "2030-03-14", "25:00", "", time.Time{}, ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(tt.date, tt.clock, loc)
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if s.Clock != tt.wantClock {
				t.Errorf("clock = %q, want %q", s.Clock, tt.wantClock)
			}
			if !s.At.Equal(tt.wantAt) {
				t.Errorf("at = %v, want %v", s.At, tt.wantAt)
			}
			if s.Date.Hour() != 0 || s.Date.Location() != loc {
				t.Errorf("date = %v, want midnight in %v", s.Date, loc)
			}
		})
	}
}

func TestSlot_InPast(t *testing.T) {
	now := time.Date(2030, 3, 14, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	s, err := Parse(yesterday, "15:00", time.UTC)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !s.InPast(now) {
		t.Error("yesterday should be in the past")
	}

	s, err = Parse("2030-03-14", "11:59", time.UTC)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !s.InPast(now) {
		t.Error("earlier today should be in the past")
	}

	s, err = Parse("2030-03-14", "12:30", time.UTC)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.InPast(now) {
		t.Error("later today should not be in the past")
	}
}
