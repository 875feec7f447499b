package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/slotbook/slotbook/internal/availability"
	"github.com/slotbook/slotbook/internal/storage"
)

type AvailabilityHandler struct {
	templates *storage.AvailabilityRepository
	logger    *slog.Logger
}

func NewAvailabilityHandler(templates *storage.AvailabilityRepository, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{templates: templates, logger: logger}
}

type dayConfig struct {
	IsAvailable bool   `json:"is_available"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type availabilityPayload struct {
	TimeGapMinutes int                  `json:"time_gap_minutes"`
	Days           map[string]dayConfig `json:"days"`
}

// Get returns the caller's weekly template with all seven days present, so
// the settings form can render closed days too. Hosts that never configured
// availability get workday defaults with every day closed.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tmpl, found, err := h.templates.Get(r.Context(), principal.UserID)
	if err != nil {
		http.Error(w, "failed to load availability", http.StatusInternalServerError)
		return
	}
	if !found {
		tmpl = availability.WeeklyTemplate{}
	}

	writeJSON(w, http.StatusOK, templateToPayload(tmpl))
}

// Update replaces the caller's whole weekly template atomically.
func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload availabilityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	tmpl, err := payloadToTemplate(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tmpl.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.templates.Replace(r.Context(), principal.UserID, tmpl); err != nil {
		http.Error(w, "failed to save availability", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, templateToPayload(tmpl))
}

func templateToPayload(tmpl availability.WeeklyTemplate) availabilityPayload {
	days := make(map[string]dayConfig, 7)
	for _, day := range availability.WeekDays() {
		win, open := tmpl.Days[day]
		cfg := dayConfig{IsAvailable: open, StartTime: "09:00", EndTime: "17:00"}
		if open {
			cfg.StartTime = availability.FormatClock(win.StartMinute)
			cfg.EndTime = availability.FormatClock(win.EndMinute)
		}
		days[availability.DayName(day)] = cfg
	}
	return availabilityPayload{TimeGapMinutes: tmpl.TimeGapMinutes, Days: days}
}

func payloadToTemplate(payload availabilityPayload) (availability.WeeklyTemplate, error) {
	tmpl := availability.WeeklyTemplate{
		TimeGapMinutes: payload.TimeGapMinutes,
		Days:           map[time.Weekday]availability.Window{},
	}
	for name, cfg := range payload.Days {
		day, err := availability.ParseDay(name)
		if err != nil {
			return availability.WeeklyTemplate{}, err
		}
		if !cfg.IsAvailable {
			continue
		}
		start, err := availability.ParseClock(cfg.StartTime)
		if err != nil {
			return availability.WeeklyTemplate{}, err
		}
		end, err := availability.ParseClock(cfg.EndTime)
		if err != nil {
			return availability.WeeklyTemplate{}, err
		}
		tmpl.Days[day] = availability.Window{StartMinute: start, EndMinute: end}
	}
	return tmpl, nil
}
