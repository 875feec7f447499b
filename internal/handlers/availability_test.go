package handlers

import (
	"testing"
	"time"

	"github.com/slotbook/slotbook/internal/availability"
)

func TestPayloadToTemplate(t *testing.T) {
	payload := availabilityPayload{
		TimeGapMinutes: 15,
		Days: map[string]dayConfig{
			"monday":    {IsAvailable: true, StartTime: "09:00", EndTime: "17:00"},
			"tuesday":   {IsAvailable: false, StartTime: "09:00", EndTime: "17:00"},
			"wednesday": {IsAvailable: true, StartTime: "10:30", EndTime: "16:00"},
		},
	}

	tmpl, err := payloadToTemplate(payload)
	if err != nil {
		t.Fatalf("payloadToTemplate failed: %v", err)
	}
	if tmpl.TimeGapMinutes != 15 {
		t.Fatalf("gap = %d, want 15", tmpl.TimeGapMinutes)
	}
	if len(tmpl.Days) != 2 {
		t.Fatalf("expected 2 open days, got %d", len(tmpl.Days))
	}
	if win := tmpl.Days[time.Wednesday]; win.StartMinute != 10*60+30 || win.EndMinute != 16*60 {
		t.Fatalf("unexpected wednesday window %+v", win)
	}
	if _, open := tmpl.Days[time.Tuesday]; open {
		t.Fatal("unavailable day should not produce a window")
	}
}

func TestPayloadToTemplate_BadInputs(t *testing.T) {
	if _, err := payloadToTemplate(availabilityPayload{
		Days: map[string]dayConfig{"moonday": {IsAvailable: true, StartTime: "09:00", EndTime: "17:00"}},
	}); err == nil {
		t.Fatal("unknown day name should fail")
	}
	if _, err := payloadToTemplate(availabilityPayload{
		Days: map[string]dayConfig{"monday": {IsAvailable: true, StartTime: "25:00", EndTime: "17:00"}},
	}); err == nil {
		t.Fatal("bad clock should fail")
	}
}

func TestTemplateToPayload_AllDaysPresent(t *testing.T) {
	tmpl := availability.WeeklyTemplate{
		TimeGapMinutes: 0,
		Days: map[time.Weekday]availability.Window{
			time.Friday: {StartMinute: 8 * 60, EndMinute: 12 * 60},
		},
	}

	payload := templateToPayload(tmpl)
	if len(payload.Days) != 7 {
		t.Fatalf("expected all 7 days, got %d", len(payload.Days))
	}
	fri := payload.Days["friday"]
	if !fri.IsAvailable || fri.StartTime != "08:00" || fri.EndTime != "12:00" {
		t.Fatalf("unexpected friday config %+v", fri)
	}
	mon := payload.Days["monday"]
	if mon.IsAvailable {
		t.Fatal("monday should be closed")
	}
	if mon.StartTime != "09:00" || mon.EndTime != "17:00" {
		t.Fatalf("closed day should carry defaults, got %+v", mon)
	}
}
