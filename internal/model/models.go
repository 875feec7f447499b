package model

import "time"

// User is a host: someone who publishes event types and takes bookings.
type User struct {
	ID           string
	Email        string
	Username     string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// EventType is a bookable meeting definition, e.g. "30 minute intro call".
type EventType struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	DurationMinutes int
	IsPrivate       bool
	CreatedAt       time.Time
	BookingCount    int
}

// Booking is a confirmed meeting between a host and an invitee. Start/End are
// UTC instants. Bookings are immutable once created.
type Booking struct {
	ID             string
	EventTypeID    string
	UserID         string
	InviteeName    string
	InviteeEmail   string
	StartTime      time.Time
	EndTime        time.Time
	AdditionalInfo string
	MeetLink       string
	CalendarID     string
	CreatedAt      time.Time
}
