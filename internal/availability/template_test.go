package availability

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	min, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	if min != 9*60+30 {
		t.Fatalf("expected 570, got %d", min)
	}
	if FormatClock(min) != "09:30" {
		t.Fatalf("round trip failed: %s", FormatClock(min))
	}

	for _, bad := range []string{"", "9:3", "25:00", "09:60", "abc"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("MONDAY")
	if err != nil {
		t.Fatalf("ParseDay failed: %v", err)
	}
	if day != time.Monday {
		t.Fatalf("expected Monday, got %s", day)
	}
	if DayName(time.Sunday) != "sunday" {
		t.Fatalf("unexpected name %s", DayName(time.Sunday))
	}
	if _, err := ParseDay("caturday"); err == nil {
		t.Fatal("expected error for unknown day")
	}
}

func TestTemplateValidate(t *testing.T) {
	ok := WeeklyTemplate{
		TimeGapMinutes: 10,
		Days: map[time.Weekday]Window{
			time.Monday: {StartMinute: 540, EndMinute: 1020},
		},
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}

	if err := (WeeklyTemplate{TimeGapMinutes: -1}).Validate(); err == nil {
		t.Fatal("negative gap should be rejected")
	}

	inverted := WeeklyTemplate{
		Days: map[time.Weekday]Window{
			time.Monday: {StartMinute: 1020, EndMinute: 540},
		},
	}
	if err := inverted.Validate(); err == nil {
		t.Fatal("inverted window should be rejected")
	}
}
