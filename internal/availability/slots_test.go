package availability

import (
	"testing"
	"time"
)

func wednesdayTemplate(startMin, endMin, gap int) WeeklyTemplate {
	return WeeklyTemplate{
		TimeGapMinutes: gap,
		Days: map[time.Weekday]Window{
			time.Wednesday: {StartMinute: startMin, EndMinute: endMin},
		},
	}
}

// 2026-01-28 is a Wednesday.
var wednesday = time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

func TestGenerate_TodayClipsToNowPlusGap(t *testing.T) {
	now := wednesday.Add(10 * time.Hour)
	tmpl := wednesdayTemplate(9*60, 17*60, 15)

	dates, err := Generate(tmpl, nil, 30*time.Minute, 0, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %d", len(dates))
	}
	if dates[0].Date != "2026-01-28" {
		t.Fatalf("unexpected date %s", dates[0].Date)
	}
	if len(dates[0].Slots) == 0 {
		t.Fatal("expected slots")
	}
	if dates[0].Slots[0] != "10:15" {
		t.Fatalf("expected first slot 10:15, got %s", dates[0].Slots[0])
	}
}

func TestGenerate_GapNotAppliedBeforeWindowStarts(t *testing.T) {
	now := wednesday.Add(7 * time.Hour)
	tmpl := wednesdayTemplate(9*60, 10*60, 15)

	dates, err := Generate(tmpl, nil, 30*time.Minute, 0, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if dates[0].Slots[0] != "09:00" {
		t.Fatalf("expected first slot 09:00, got %s", dates[0].Slots[0])
	}
}

func TestGenerate_FullyBookedDayKeepsEmptySlots(t *testing.T) {
	now := wednesday.Add(1 * time.Hour)
	tmpl := wednesdayTemplate(9*60, 10*60, 0)
	busy := []Interval{
		{Start: wednesday.Add(9 * time.Hour), End: wednesday.Add(10 * time.Hour)},
	}

	dates, err := Generate(tmpl, busy, 30*time.Minute, 0, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %d", len(dates))
	}
	if dates[0].Slots == nil {
		t.Fatal("slots should be empty, not nil")
	}
	if len(dates[0].Slots) != 0 {
		t.Fatalf("expected no slots, got %v", dates[0].Slots)
	}
}

func TestGenerate_ClosedDaysOmitted(t *testing.T) {
	now := wednesday.Add(1 * time.Hour)
	tmpl := wednesdayTemplate(9*60, 17*60, 0)

	// Horizon 7 covers Wed through the following Wed inclusive.
	dates, err := Generate(tmpl, nil, 60*time.Minute, 7, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
	if dates[0].Date != "2026-01-28" || dates[1].Date != "2026-02-04" {
		t.Fatalf("unexpected dates %s, %s", dates[0].Date, dates[1].Date)
	}
}

func TestGenerate_DurationLongerThanWindow(t *testing.T) {
	now := wednesday.Add(1 * time.Hour)
	tmpl := wednesdayTemplate(9*60, 10*60, 0)

	dates, err := Generate(tmpl, nil, 2*time.Hour, 0, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(dates[0].Slots) != 0 {
		t.Fatalf("expected no slots, got %v", dates[0].Slots)
	}
}

func TestGenerate_WindowEntirelyInThePast(t *testing.T) {
	now := wednesday.Add(18 * time.Hour)
	tmpl := wednesdayTemplate(9*60, 10*60, 0)

	dates, err := Generate(tmpl, nil, 30*time.Minute, 0, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(dates[0].Slots) != 0 {
		t.Fatalf("expected no slots, got %v", dates[0].Slots)
	}
}

func TestGenerate_SlotsAvoidBookings(t *testing.T) {
	now := wednesday.Add(1 * time.Hour)
	tmpl := wednesdayTemplate(9*60, 11*60, 0)
	busy := []Interval{
		{Start: wednesday.Add(9*time.Hour + 30*time.Minute), End: wednesday.Add(10 * time.Hour)},
	}

	dates, err := Generate(tmpl, busy, 30*time.Minute, 0, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := []string{"09:00", "10:00", "10:30"}
	got := dates[0].Slots
	if len(got) != len(want) {
		t.Fatalf("expected slots %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected slots %v, got %v", want, got)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	now := wednesday.Add(10*time.Hour + 7*time.Minute)
	tmpl := wednesdayTemplate(9*60, 17*60, 20)
	busy := []Interval{
		{Start: wednesday.Add(13 * time.Hour), End: wednesday.Add(14 * time.Hour)},
	}

	first, err := Generate(tmpl, busy, 45*time.Minute, 30, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := Generate(tmpl, busy, 45*time.Minute, 30, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Date != second[i].Date || len(first[i].Slots) != len(second[i].Slots) {
			t.Fatalf("runs differ at %d", i)
		}
		for j := range first[i].Slots {
			if first[i].Slots[j] != second[i].Slots[j] {
				t.Fatalf("runs differ at %d/%d", i, j)
			}
		}
	}
}

func TestGenerate_RejectsBadInputs(t *testing.T) {
	now := wednesday
	tmpl := wednesdayTemplate(9*60, 17*60, 0)

	if _, err := Generate(tmpl, nil, 0, 30, now); err == nil {
		t.Fatal("expected error for zero duration")
	}
	if _, err := Generate(tmpl, nil, 30*time.Minute, -1, now); err == nil {
		t.Fatal("expected error for negative horizon")
	}

	bad := wednesdayTemplate(17*60, 9*60, 0)
	if _, err := Generate(bad, nil, 30*time.Minute, 30, now); err == nil {
		t.Fatal("expected error for inverted window")
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	busy := []Interval{
		{Start: wednesday.Add(9 * time.Hour), End: wednesday.Add(9*time.Hour + 30*time.Minute)},
	}

	// Touching endpoints do not overlap.
	if Overlaps(wednesday.Add(9*time.Hour+30*time.Minute), wednesday.Add(10*time.Hour), busy) {
		t.Fatal("slot starting at booking end should not overlap")
	}
	if Overlaps(wednesday.Add(8*time.Hour+30*time.Minute), wednesday.Add(9*time.Hour), busy) {
		t.Fatal("slot ending at booking start should not overlap")
	}

	// Partial overlap is rejected.
	if !Overlaps(wednesday.Add(9*time.Hour+15*time.Minute), wednesday.Add(9*time.Hour+45*time.Minute), busy) {
		t.Fatal("partially overlapping slot should overlap")
	}
	// Containment in either direction is rejected.
	if !Overlaps(wednesday.Add(9*time.Hour+5*time.Minute), wednesday.Add(9*time.Hour+10*time.Minute), busy) {
		t.Fatal("slot inside booking should overlap")
	}
	if !Overlaps(wednesday.Add(8*time.Hour), wednesday.Add(11*time.Hour), busy) {
		t.Fatal("slot containing booking should overlap")
	}
}
