package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/slotbook/slotbook/internal/availability"
	"github.com/slotbook/slotbook/internal/calendar"
	"github.com/slotbook/slotbook/internal/model"
	"github.com/slotbook/slotbook/internal/notify"
	"github.com/slotbook/slotbook/internal/outbox"
	"github.com/slotbook/slotbook/internal/storage"
)

// DefaultHorizonDays is how far ahead the slot picker looks.
const DefaultHorizonDays = 30

type BookingHandler struct {
	users     *storage.UserRepository
	events    *storage.EventRepository
	templates *storage.AvailabilityRepository
	bookings  *storage.BookingRepository
	calendar  calendar.Creator
	outbox    *outbox.Repository
	logger    *slog.Logger

	horizonDays int
	now         func() time.Time
}

func NewBookingHandler(
	users *storage.UserRepository,
	events *storage.EventRepository,
	templates *storage.AvailabilityRepository,
	bookings *storage.BookingRepository,
	creator calendar.Creator,
	outboxRepo *outbox.Repository,
	logger *slog.Logger,
) *BookingHandler {
	return &BookingHandler{
		users:       users,
		events:      events,
		templates:   templates,
		bookings:    bookings,
		calendar:    creator,
		outbox:      outboxRepo,
		logger:      logger,
		horizonDays: DefaultHorizonDays,
		now:         time.Now,
	}
}

type slotsResponse struct {
	EventID         string                   `json:"event_id"`
	DurationMinutes int                      `json:"duration_minutes"`
	TimeGapMinutes  int                      `json:"time_gap_minutes"`
	Days            []availability.DateSlots `json:"days"`
}

// Slots renders the slot picker: every open slot for the event over the next
// thirty days, given the host's weekly template and existing bookings.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	eventID := strings.TrimSpace(r.URL.Query().Get("event_id"))
	if username == "" || eventID == "" {
		http.Error(w, "username and event_id required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	et, owner, err := h.events.GetByUsernameAndID(ctx, username, eventID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load event", http.StatusInternalServerError)
		return
	}

	tmpl, found, err := h.templates.Get(ctx, owner.ID)
	if err != nil {
		http.Error(w, "failed to load availability", http.StatusInternalServerError)
		return
	}

	days := []availability.DateSlots{}
	if found {
		now := h.now().UTC()
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, h.horizonDays+1)
		busy, err := h.bookings.ListIntervals(ctx, owner.ID, from, to)
		if err != nil {
			http.Error(w, "failed to load bookings", http.StatusInternalServerError)
			return
		}
		duration := time.Duration(et.DurationMinutes) * time.Minute
		days, err = availability.Generate(tmpl, busy, duration, h.horizonDays, now)
		if err != nil {
			http.Error(w, "failed to compute slots", http.StatusInternalServerError)
			return
		}
		if days == nil {
			days = []availability.DateSlots{}
		}
	}

	writeJSON(w, http.StatusOK, slotsResponse{
		EventID:         et.ID,
		DurationMinutes: et.DurationMinutes,
		TimeGapMinutes:  tmpl.TimeGapMinutes,
		Days:            days,
	})
}

type createBookingRequest struct {
	Username       string `json:"username"`
	EventID        string `json:"event_id"`
	InviteeName    string `json:"invitee_name"`
	InviteeEmail   string `json:"invitee_email"`
	StartTime      string `json:"start_time"`
	AdditionalInfo string `json:"additional_info"`
}

type createBookingResponse struct {
	BookingID string `json:"booking_id"`
	MeetLink  string `json:"meet_link"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func validateBookingRequest(req createBookingRequest) string {
	switch {
	case req.Username == "" || req.EventID == "":
		return "username and event_id required"
	case req.InviteeName == "":
		return "invitee_name required"
	case !validEmail(req.InviteeEmail):
		return "invitee_email is not a valid email"
	case req.StartTime == "":
		return "start_time required"
	case len(req.AdditionalInfo) > 1000:
		return "additional_info is too long"
	default:
		return ""
	}
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

// Create books a slot. The owner's bookings are re-read under a per-owner
// advisory lock inside the transaction, so two invitees racing for the same
// slot cannot both commit; the bookings exclusion constraint backstops the
// check.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.EventID = strings.TrimSpace(req.EventID)
	req.InviteeName = strings.TrimSpace(req.InviteeName)
	req.InviteeEmail = strings.TrimSpace(req.InviteeEmail)
	if msg := validateBookingRequest(req); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "start_time must be RFC 3339", http.StatusBadRequest)
		return
	}
	start = start.UTC()

	ctx := r.Context()
	et, owner, err := h.events.GetByUsernameAndID(ctx, req.Username, req.EventID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load event", http.StatusInternalServerError)
		return
	}
	end := start.Add(time.Duration(et.DurationMinutes) * time.Minute)

	tmpl, found, err := h.templates.Get(ctx, owner.ID)
	if err != nil {
		http.Error(w, "failed to load availability", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "host has no availability", http.StatusBadRequest)
		return
	}
	now := h.now().UTC()
	if msg := checkRequestedSlot(tmpl, start, end, now); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	hostToken, err := h.users.GetGoogleToken(ctx, owner.ID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "host has not connected a calendar", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "failed to load calendar credentials", http.StatusInternalServerError)
		return
	}

	tx, err := h.bookings.Begin(ctx)
	if err != nil {
		http.Error(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := h.bookings.LockOwner(ctx, tx, owner.ID); err != nil {
		http.Error(w, "failed to serialize booking", http.StatusInternalServerError)
		return
	}
	busy, err := h.bookings.ListIntervalsTx(ctx, tx, owner.ID, start, end)
	if err != nil {
		http.Error(w, "failed to check bookings", http.StatusInternalServerError)
		return
	}
	if availability.Overlaps(start, end, busy) {
		http.Error(w, "slot already booked", http.StatusConflict)
		return
	}

	meeting, err := h.calendar.CreateMeeting(ctx, hostToken, calendar.Request{
		Summary:      et.Title + ": " + owner.Name + " and " + req.InviteeName,
		Description:  req.AdditionalInfo,
		Start:        start,
		End:          end,
		InviteeEmail: req.InviteeEmail,
		HostEmail:    owner.Email,
	})
	if err != nil {
		h.logger.Error("calendar event creation failed", "error", err, "event_id", et.ID)
		http.Error(w, "failed to create calendar event", http.StatusBadGateway)
		return
	}

	booking := model.Booking{
		ID:             uuid.NewString(),
		EventTypeID:    et.ID,
		UserID:         owner.ID,
		InviteeName:    req.InviteeName,
		InviteeEmail:   req.InviteeEmail,
		StartTime:      start,
		EndTime:        end,
		AdditionalInfo: req.AdditionalInfo,
		MeetLink:       meeting.MeetLink,
		CalendarID:     meeting.EventID,
	}
	if err := h.bookings.Create(ctx, tx, &booking); err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create booking", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(notify.BookingCreated{
		BookingID:      booking.ID,
		EventTitle:     et.Title,
		HostName:       owner.Name,
		HostEmail:      owner.Email,
		InviteeName:    booking.InviteeName,
		InviteeEmail:   booking.InviteeEmail,
		StartTime:      start.Format(time.RFC3339),
		EndTime:        end.Format(time.RFC3339),
		MeetLink:       booking.MeetLink,
		AdditionalInfo: booking.AdditionalInfo,
	})
	if err != nil {
		http.Error(w, "failed to marshal booking event", http.StatusInternalServerError)
		return
	}
	if err := h.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "booking",
		AggregateID:   booking.ID,
		EventType:     "booking.created.v1",
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to enqueue booking event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit booking", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, createBookingResponse{
		BookingID: booking.ID,
		MeetLink:  booking.MeetLink,
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
	})
}

// checkRequestedSlot rejects requests the slot picker would never have
// offered: past or too-soon starts, closed days, and slots that do not fit
// inside the day's window.
func checkRequestedSlot(tmpl availability.WeeklyTemplate, start, end, now time.Time) string {
	gap := time.Duration(tmpl.TimeGapMinutes) * time.Minute
	if start.Before(now.Add(gap)) {
		return "start_time is too soon"
	}
	win, ok := tmpl.Days[start.Weekday()]
	if !ok {
		return "host is not available on that day"
	}
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	winStart := day.Add(time.Duration(win.StartMinute) * time.Minute)
	winEnd := day.Add(time.Duration(win.EndMinute) * time.Minute)
	if start.Before(winStart) || end.After(winEnd) {
		return "slot is outside the host's availability"
	}
	return ""
}

type meetingItem struct {
	BookingID      string `json:"booking_id"`
	EventID        string `json:"event_id"`
	InviteeName    string `json:"invitee_name"`
	InviteeEmail   string `json:"invitee_email"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	MeetLink       string `json:"meet_link"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// Meetings lists the caller's upcoming bookings, soonest first.
func (h *BookingHandler) Meetings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	bookings, err := h.bookings.ListUpcomingByUser(r.Context(), principal.UserID, h.now().UTC(), 100)
	if err != nil {
		http.Error(w, "failed to list meetings", http.StatusInternalServerError)
		return
	}

	items := make([]meetingItem, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, meetingItem{
			BookingID:      b.ID,
			EventID:        b.EventTypeID,
			InviteeName:    b.InviteeName,
			InviteeEmail:   b.InviteeEmail,
			StartTime:      b.StartTime.UTC().Format(time.RFC3339),
			EndTime:        b.EndTime.UTC().Format(time.RFC3339),
			MeetLink:       b.MeetLink,
			AdditionalInfo: b.AdditionalInfo,
		})
	}
	writeJSON(w, http.StatusOK, items)
}
