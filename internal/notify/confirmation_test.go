package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

type recordingSender struct {
	to       []string
	subjects []string
	bodies   []string
}

func (s *recordingSender) Send(to, subject, body string) error {
	s.to = append(s.to, to)
	s.subjects = append(s.subjects, subject)
	s.bodies = append(s.bodies, body)
	return nil
}

func TestHandleBookingCreated(t *testing.T) {
	sender := &recordingSender{}
	emailer := NewEmailer(sender, slog.Default())

	payload, err := json.Marshal(BookingCreated{
		BookingID:    "bk-1",
		EventTitle:   "Intro Call",
		HostName:     "Grace",
		HostEmail:    "grace@example.com",
		InviteeName:  "Ada",
		InviteeEmail: "ada@example.com",
		StartTime:    "2026-03-02T14:00:00Z",
		EndTime:      "2026-03-02T14:30:00Z",
		MeetLink:     "https://meet.google.com/abc-defg-hij",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	if err := emailer.HandleBookingCreated(context.Background(), payload); err != nil {
		t.Fatalf("HandleBookingCreated failed: %v", err)
	}
	if len(sender.to) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sender.to))
	}
	if sender.to[0] != "ada@example.com" || sender.to[1] != "grace@example.com" {
		t.Fatalf("unexpected recipients %v", sender.to)
	}
	for _, body := range sender.bodies {
		if !strings.Contains(body, "https://meet.google.com/abc-defg-hij") {
			t.Fatalf("body missing meet link: %q", body)
		}
	}
}

func TestHandleBookingCreated_MalformedPayloadDropped(t *testing.T) {
	sender := &recordingSender{}
	emailer := NewEmailer(sender, slog.Default())

	if err := emailer.HandleBookingCreated(context.Background(), []byte("{not json")); err != nil {
		t.Fatalf("malformed payload should be dropped, got %v", err)
	}
	if len(sender.to) != 0 {
		t.Fatalf("expected no emails, got %d", len(sender.to))
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := buildMessage("from@x", "to@y", "Subject line", "body text")
	if !strings.HasPrefix(msg, "From: from@x\r\n") {
		t.Fatalf("unexpected message start: %q", msg)
	}
	if !strings.Contains(msg, "\r\n\r\nbody text\r\n") {
		t.Fatalf("body not separated from headers: %q", msg)
	}
}
