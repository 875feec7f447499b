package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/slotbook/slotbook/internal/model"
	"github.com/slotbook/slotbook/internal/storage"
)

type EventHandler struct {
	events *storage.EventRepository
	logger *slog.Logger
}

func NewEventHandler(events *storage.EventRepository, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

type createEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	IsPrivate       bool   `json:"is_private"`
}

type eventItem struct {
	EventID         string `json:"event_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	IsPrivate       bool   `json:"is_private"`
	BookingCount    int    `json:"booking_count"`
	CreatedAt       string `json:"created_at"`
}

type eventDetailResponse struct {
	eventItem
	Host hostCard `json:"host"`
}

type hostCard struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
}

func validateEventRequest(req createEventRequest) string {
	switch {
	case req.Title == "":
		return "title is required"
	case len(req.Title) > 100:
		return "title is too long"
	case len(req.Description) > 500:
		return "description is too long"
	case req.DurationMinutes <= 0:
		return "duration_minutes must be positive"
	case req.DurationMinutes > 8*60:
		return "duration_minutes must be at most 480"
	default:
		return ""
	}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if msg := validateEventRequest(req); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	et := model.EventType{
		ID:              uuid.NewString(),
		UserID:          principal.UserID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		IsPrivate:       req.IsPrivate,
	}
	if err := h.events.Create(r.Context(), et); err != nil {
		http.Error(w, "failed to create event", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"event_id": et.ID})
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	events, err := h.events.ListByUser(r.Context(), principal.UserID)
	if err != nil {
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, eventItems(events))
}

type deleteEventRequest struct {
	EventID string `json:"event_id"`
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req deleteEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.EventID) == "" {
		http.Error(w, "event_id required", http.StatusBadRequest)
		return
	}

	if err := h.events.Delete(r.Context(), principal.UserID, strings.TrimSpace(req.EventID)); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete event", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublicList serves a host's visible event types for their booking page.
func (h *EventHandler) PublicList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}

	events, err := h.events.ListPublicByUsername(r.Context(), username)
	if err != nil {
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, eventItems(events))
}

func (h *EventHandler) PublicDetail(w http.ResponseWriter, r *http.Request) {
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

	et, owner, err := h.events.GetByUsernameAndID(r.Context(), username, eventID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, eventDetailResponse{
		eventItem: toEventItem(et),
		Host: hostCard{
			Username: owner.Username,
			Name:     owner.Name,
			Email:    owner.Email,
		},
	})
}

func eventItems(events []model.EventType) []eventItem {
	items := make([]eventItem, 0, len(events))
	for _, et := range events {
		items = append(items, toEventItem(et))
	}
	return items
}

func toEventItem(et model.EventType) eventItem {
	return eventItem{
		EventID:         et.ID,
		Title:           et.Title,
		Description:     et.Description,
		DurationMinutes: et.DurationMinutes,
		IsPrivate:       et.IsPrivate,
		BookingCount:    et.BookingCount,
		CreatedAt:       et.CreatedAt.UTC().Format(time.RFC3339),
	}
}
