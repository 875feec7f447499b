package calendar

import (
	"testing"
	"time"
)

func TestBuildEvent(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	req := Request{
		Summary:      "Ada Lovelace - Intro Call",
		Description:  "Discuss the project",
		Start:        start,
		End:          start.Add(30 * time.Minute),
		InviteeEmail: "ada@example.com",
		HostEmail:    "host@example.com",
	}

	ev := buildEvent(req)
	if ev.Summary != req.Summary {
		t.Fatalf("unexpected summary %q", ev.Summary)
	}
	if ev.Start.DateTime != "2026-03-02T14:00:00Z" {
		t.Fatalf("unexpected start %q", ev.Start.DateTime)
	}
	if ev.End.DateTime != "2026-03-02T14:30:00Z" {
		t.Fatalf("unexpected end %q", ev.End.DateTime)
	}
	if len(ev.Attendees) != 2 {
		t.Fatalf("expected 2 attendees, got %d", len(ev.Attendees))
	}
	if ev.ConferenceData == nil || ev.ConferenceData.CreateRequest == nil {
		t.Fatal("expected a conference create request")
	}
	if ev.ConferenceData.CreateRequest.RequestId == "" {
		t.Fatal("expected a conference request id")
	}
	if ev.ConferenceData.CreateRequest.ConferenceSolutionKey.Type != "hangoutsMeet" {
		t.Fatalf("unexpected solution key %q", ev.ConferenceData.CreateRequest.ConferenceSolutionKey.Type)
	}
}
