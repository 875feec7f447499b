package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Meeting is the result of creating a remote calendar event: the provider's
// event id and the video join link sent to both parties.
type Meeting struct {
	EventID  string
	MeetLink string
}

type Request struct {
	Summary      string
	Description  string
	Start        time.Time
	End          time.Time
	InviteeEmail string
	HostEmail    string
}

// Creator creates a calendar event with a join link on the host's calendar.
// Failures are infrastructure errors; the caller decides whether to retry.
type Creator interface {
	CreateMeeting(ctx context.Context, hostToken []byte, req Request) (Meeting, error)
}

var ErrNoMeetLink = errors.New("calendar event created without a meet link")

// GoogleCreator creates events on the host's primary Google calendar with a
// Meet conference attached. hostToken is the stored OAuth2 token JSON; the
// token source refreshes it transparently when expired.
type GoogleCreator struct {
	cfg *oauth2.Config
}

func NewGoogleCreator(clientID, clientSecret string) *GoogleCreator {
	return &GoogleCreator{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{calendarapi.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
	}
}

func (c *GoogleCreator) CreateMeeting(ctx context.Context, hostToken []byte, req Request) (Meeting, error) {
	var token oauth2.Token
	if err := json.Unmarshal(hostToken, &token); err != nil {
		return Meeting{}, fmt.Errorf("invalid stored google token: %w", err)
	}

	svc, err := calendarapi.NewService(ctx, option.WithTokenSource(c.cfg.TokenSource(ctx, &token)))
	if err != nil {
		return Meeting{}, fmt.Errorf("calendar service init: %w", err)
	}

	created, err := svc.Events.Insert("primary", buildEvent(req)).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return Meeting{}, fmt.Errorf("calendar event insert: %w", err)
	}
	if created.HangoutLink == "" {
		return Meeting{}, ErrNoMeetLink
	}
	return Meeting{EventID: created.Id, MeetLink: created.HangoutLink}, nil
}

func buildEvent(req Request) *calendarapi.Event {
	return &calendarapi.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       &calendarapi.EventDateTime{DateTime: req.Start.UTC().Format(time.RFC3339)},
		End:         &calendarapi.EventDateTime{DateTime: req.End.UTC().Format(time.RFC3339)},
		Attendees: []*calendarapi.EventAttendee{
			{Email: req.InviteeEmail},
			{Email: req.HostEmail},
		},
		ConferenceData: &calendarapi.ConferenceData{
			CreateRequest: &calendarapi.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendarapi.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}
}
