package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/slotbook/slotbook/internal/availability"
)

func TestValidateBookingRequest(t *testing.T) {
	valid := createBookingRequest{
		Username:     "grace",
		EventID:      "ev-1",
		InviteeName:  "Ada",
		InviteeEmail: "ada@example.com",
		StartTime:    "2026-03-02T14:00:00Z",
	}
	if msg := validateBookingRequest(valid); msg != "" {
		t.Fatalf("valid request rejected: %s", msg)
	}

	cases := []struct {
		name   string
		mutate func(*createBookingRequest)
	}{
		{"missing username", func(r *createBookingRequest) { r.Username = "" }},
		{"missing event", func(r *createBookingRequest) { r.EventID = "" }},
		{"missing invitee name", func(r *createBookingRequest) { r.InviteeName = "" }},
		{"bad email", func(r *createBookingRequest) { r.InviteeEmail = "not-an-email" }},
		{"missing start", func(r *createBookingRequest) { r.StartTime = "" }},
		{"oversized info", func(r *createBookingRequest) { r.AdditionalInfo = strings.Repeat("x", 1001) }},
	}
	for _, tc := range cases {
		req := valid
		tc.mutate(&req)
		if msg := validateBookingRequest(req); msg == "" {
			t.Errorf("%s: expected rejection", tc.name)
		}
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"ada@example.com", true},
		{"a@b", true},
		{"@example.com", false},
		{"ada@", false},
		{"ada", false},
		{"ada @example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := validEmail(tc.email); got != tc.want {
			t.Errorf("validEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestCheckRequestedSlot(t *testing.T) {
	// 2026-01-28 is a Wednesday.
	now := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	tmpl := availability.WeeklyTemplate{
		TimeGapMinutes: 30,
		Days: map[time.Weekday]availability.Window{
			time.Wednesday: {StartMinute: 9 * 60, EndMinute: 17 * 60},
		},
	}
	slot := func(h, m int) time.Time {
		return time.Date(2026, 1, 28, h, m, 0, 0, time.UTC)
	}

	if msg := checkRequestedSlot(tmpl, slot(14, 0), slot(14, 30), now); msg != "" {
		t.Fatalf("in-window future slot rejected: %s", msg)
	}
	if msg := checkRequestedSlot(tmpl, slot(10, 15), slot(10, 45), now); msg == "" {
		t.Fatal("slot inside the lead-time gap should be rejected")
	}
	if msg := checkRequestedSlot(tmpl, slot(9, 30), slot(10, 0), now); msg == "" {
		t.Fatal("past slot should be rejected")
	}
	if msg := checkRequestedSlot(tmpl, slot(16, 45), slot(17, 15), now); msg == "" {
		t.Fatal("slot overrunning the window should be rejected")
	}

	thursday := time.Date(2026, 1, 29, 14, 0, 0, 0, time.UTC)
	if msg := checkRequestedSlot(tmpl, thursday, thursday.Add(30*time.Minute), now); msg == "" {
		t.Fatal("closed day should be rejected")
	}

	// Exact window end is fine under half-open semantics.
	if msg := checkRequestedSlot(tmpl, slot(16, 30), slot(17, 0), now); msg != "" {
		t.Fatalf("slot ending at window end rejected: %s", msg)
	}
}

func TestValidateEventRequest(t *testing.T) {
	valid := createEventRequest{Title: "Intro Call", Description: "Quick chat", DurationMinutes: 30}
	if msg := validateEventRequest(valid); msg != "" {
		t.Fatalf("valid request rejected: %s", msg)
	}

	cases := []struct {
		name   string
		mutate func(*createEventRequest)
	}{
		{"empty title", func(r *createEventRequest) { r.Title = "" }},
		{"long title", func(r *createEventRequest) { r.Title = strings.Repeat("x", 101) }},
		{"long description", func(r *createEventRequest) { r.Description = strings.Repeat("x", 501) }},
		{"zero duration", func(r *createEventRequest) { r.DurationMinutes = 0 }},
		{"negative duration", func(r *createEventRequest) { r.DurationMinutes = -30 }},
		{"absurd duration", func(r *createEventRequest) { r.DurationMinutes = 9 * 60 }},
	}
	for _, tc := range cases {
		req := valid
		tc.mutate(&req)
		if msg := validateEventRequest(req); msg == "" {
			t.Errorf("%s: expected rejection", tc.name)
		}
	}
}
