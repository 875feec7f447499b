package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Window is a wall-clock availability window within one day, expressed in
// minutes since midnight. Windows are half-open: [StartMinute, EndMinute).
type Window struct {
	StartMinute int
	EndMinute   int
}

const minutesPerDay = 24 * 60

func (w Window) Valid() bool {
	return w.StartMinute >= 0 && w.EndMinute <= minutesPerDay && w.StartMinute < w.EndMinute
}

// WeeklyTemplate is a user's recurring weekly availability. A weekday absent
// from Days is closed. At most one window per day. All times are naive UTC
// wall clock; there is no per-user timezone.
type WeeklyTemplate struct {
	TimeGapMinutes int
	Days           map[time.Weekday]Window
}

var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidHorizon  = errors.New("horizon must not be negative")
)

func (t WeeklyTemplate) Validate() error {
	if t.TimeGapMinutes < 0 {
		return errors.New("time gap must not be negative")
	}
	for day, win := range t.Days {
		if !win.Valid() {
			return fmt.Errorf("invalid window for %s: start %d, end %d", DayName(day), win.StartMinute, win.EndMinute)
		}
	}
	return nil
}

// ParseClock converts an "HH:mm" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes since midnight back to "HH:mm".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

var dayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

// DayName returns the lowercase wire name used in the availability API.
func DayName(day time.Weekday) string {
	return dayNames[day]
}

// ParseDay maps a wire day name (any case) back to a time.Weekday.
func ParseDay(name string) (time.Weekday, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for day, n := range dayNames {
		if n == want {
			return day, nil
		}
	}
	return 0, fmt.Errorf("invalid day name %q", name)
}

// WeekDays lists all weekdays in Monday-first order, matching the order the
// availability API renders templates in.
func WeekDays() []time.Weekday {
	return []time.Weekday{
		time.Monday,
		time.Tuesday,
		time.Wednesday,
		time.Thursday,
		time.Friday,
		time.Saturday,
		time.Sunday,
	}
}
