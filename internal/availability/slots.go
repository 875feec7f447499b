package availability

import "time"

type Interval struct {
	Start time.Time
	End   time.Time
}

// DateSlots holds the open slot start times for one calendar date. A date with
// a window but no free slots keeps an empty (non-nil) Slots so callers can
// distinguish "fully booked" from "closed" (closed days are omitted entirely).
type DateSlots struct {
	Date  string   `json:"date"`  // YYYY-MM-DD
	Slots []string `json:"slots"` // HH:mm, ascending
}

// Generate computes the bookable slots for every date from startOfDay(now)
// through startOfDay(now)+horizonDays inclusive.
//
// Slots are walked in fixed steps of duration from the day window's lower
// bound, so accepted slots are contiguous and never overlap each other. A
// candidate [t, t+duration) is kept only if it fits entirely inside the window
// and does not overlap any busy interval. For today's date the lower bound is
// clipped to now+gap when the window start is already in the past; a window
// that has not started yet is left alone.
//
// The result is a pure function of the inputs: dates ascending, slots
// ascending within a date.
func Generate(tmpl WeeklyTemplate, busy []Interval, duration time.Duration, horizonDays int, now time.Time) ([]DateSlots, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if horizonDays < 0 {
		return nil, ErrInvalidHorizon
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	gap := time.Duration(tmpl.TimeGapMinutes) * time.Minute

	var out []DateSlots
	for i := 0; i <= horizonDays; i++ {
		day := today.AddDate(0, 0, i)
		win, ok := tmpl.Days[day.Weekday()]
		if !ok {
			continue
		}

		winEnd := day.Add(time.Duration(win.EndMinute) * time.Minute)
		cursor := day.Add(time.Duration(win.StartMinute) * time.Minute)
		if i == 0 && cursor.Before(now) {
			cursor = now.Add(gap)
		}

		slots := []string{}
		for ; !cursor.Add(duration).After(winEnd); cursor = cursor.Add(duration) {
			if Overlaps(cursor, cursor.Add(duration), busy) {
				continue
			}
			slots = append(slots, cursor.Format("15:04"))
		}
		out = append(out, DateSlots{Date: day.Format("2006-01-02"), Slots: slots})
	}
	return out, nil
}

// Overlaps reports whether [start, end) intersects any busy interval.
// Half-open semantics: touching endpoints do not overlap.
func Overlaps(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
