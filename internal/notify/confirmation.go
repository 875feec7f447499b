package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// BookingCreated is the payload of booking.created.v1 events.
type BookingCreated struct {
	BookingID      string `json:"booking_id"`
	EventTitle     string `json:"event_title"`
	HostName       string `json:"host_name"`
	HostEmail      string `json:"host_email"`
	InviteeName    string `json:"invitee_name"`
	InviteeEmail   string `json:"invitee_email"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	MeetLink       string `json:"meet_link"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// Emailer turns booking.created events into confirmation emails for both the
// invitee and the host.
type Emailer struct {
	sender Sender
	logger *slog.Logger
}

func NewEmailer(sender Sender, logger *slog.Logger) *Emailer {
	return &Emailer{sender: sender, logger: logger}
}

func (e *Emailer) HandleBookingCreated(_ context.Context, payload []byte) error {
	var evt BookingCreated
	if err := json.Unmarshal(payload, &evt); err != nil {
		// Malformed payloads are logged and dropped, not retried.
		e.logger.Error("invalid booking.created payload", "err", err)
		return nil
	}
	if evt.InviteeEmail == "" || evt.HostEmail == "" {
		e.logger.Error("booking.created payload missing recipients", "booking_id", evt.BookingID)
		return nil
	}

	start, err := time.Parse(time.RFC3339, evt.StartTime)
	if err != nil {
		e.logger.Error("booking.created payload has bad start_time", "booking_id", evt.BookingID, "err", err)
		return nil
	}

	subject := fmt.Sprintf("Confirmed: %s on %s", evt.EventTitle, start.UTC().Format("Jan 2, 15:04 MST"))
	if err := e.sender.Send(evt.InviteeEmail, subject, inviteeBody(evt, start)); err != nil {
		return fmt.Errorf("send invitee confirmation: %w", err)
	}
	if err := e.sender.Send(evt.HostEmail, subject, hostBody(evt, start)); err != nil {
		return fmt.Errorf("send host confirmation: %w", err)
	}
	return nil
}

func inviteeBody(evt BookingCreated, start time.Time) string {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking %q with %s is confirmed.\n\nWhen: %s UTC\nJoin:  %s\n",
		evt.InviteeName, evt.EventTitle, evt.HostName, start.UTC().Format("Monday, Jan 2 2006 at 15:04"), evt.MeetLink,
	)
	if evt.AdditionalInfo != "" {
		body += "\nYour note: " + evt.AdditionalInfo + "\n"
	}
	return body
}

func hostBody(evt BookingCreated, start time.Time) string {
	body := fmt.Sprintf(
		"%s (%s) booked %q.\n\nWhen: %s UTC\nJoin:  %s\n",
		evt.InviteeName, evt.InviteeEmail, evt.EventTitle, start.UTC().Format("Monday, Jan 2 2006 at 15:04"), evt.MeetLink,
	)
	if evt.AdditionalInfo != "" {
		body += "\nNote from the invitee: " + evt.AdditionalInfo + "\n"
	}
	return body
}
