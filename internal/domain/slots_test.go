package domain

import (
	"testing"
	"time"
)

func TestFreeSlots_SkipsBusyAndInactivePeriods(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sched := DaySchedule{
		Active:          true,
		IntervalMinutes: 60,
		Morning:         TimeRange{Start: "09:00", End: "12:00", Active: true},
		Afternoon:       TimeRange{Start: "13:00", End: "15:00", Active: false},
		Night:           TimeRange{Start: "19:00", End: "21:00", Active: true},
	}
	busy := []Interval{{Start: day.Add(10 * time.Hour), End: day.Add(11 * time.Hour)}}

	slots, err := FreeSlots(day, sched, 0, busy, day)
	if err != nil {
		t.Fatalf("FreeSlots error: %v", err)
	}

	want := []time.Time{
		day.Add(9 * time.Hour),
		day.Add(11 * time.Hour),
		day.Add(19 * time.Hour),
		day.Add(20 * time.Hour),
	}
	if len(slots) != len(want) {
		t.Fatalf("slots = %v, want %v", slots, want)
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Fatalf("slot[%d] = %s, want %s", i, slots[i].Format(time.RFC3339), want[i].Format(time.RFC3339))
		}
	}
}

func TestFreeSlots_DurationLongerThanStep(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sched := DaySchedule{
		Active:          true,
		IntervalMinutes: 30,
		Morning:         TimeRange{Start: "09:00", End: "10:30", Active: true},
	}

	slots, err := FreeSlots(day, sched, 45*time.Minute, nil, day)
	if err != nil {
		t.Fatalf("FreeSlots error: %v", err)
	}
	// 09:00 and 09:30 fit; 10:00 + 45m runs past 10:30.
	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2 (%v)", len(slots), slots)
	}
}

func TestFreeSlots_DropsPastSlots(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sched := DaySchedule{
		Active:          true,
		IntervalMinutes: 60,
		Morning:         TimeRange{Start: "09:00", End: "12:00", Active: true},
	}

	slots, err := FreeSlots(day, sched, 0, nil, day.Add(10*time.Hour+time.Minute))
	if err != nil {
		t.Fatalf("FreeSlots error: %v", err)
	}
	if len(slots) != 1 || !slots[0].Equal(day.Add(11*time.Hour)) {
		t.Fatalf("slots = %v, want only 11:00", slots)
	}
}

func TestFreeSlots_ClosedDay(t *testing.T) {
	slots, err := FreeSlots(time.Now(), DaySchedule{Active: false}, 0, nil, time.Time{})
	if err != nil {
		t.Fatalf("FreeSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("closed day returned %d slots", len(slots))
	}
}

func TestFreeSlots_WallClockOnDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz data unavailable: %v", err)
	}
	// Clocks jump from 02:00 to 03:00 on 2030-03-10.
	day := time.Date(2030, 3, 10, 0, 0, 0, 0, loc)
	sched := DaySchedule{
		Active:          true,
		IntervalMinutes: 60,
		Morning:         TimeRange{Start: "09:00", End: "12:00", Active: true},
	}

	slots, err := FreeSlots(day, sched, 0, nil, day)
	if err != nil {
		t.Fatalf("FreeSlots error: %v", err)
	}
	want := []string{"09:00", "10:00", "11:00"}
	if len(slots) != len(want) {
		t.Fatalf("slots = %v, want wall clock %v", slots, want)
	}
	for i, w := range want {
		if got := slots[i].In(loc).Format("15:04"); got != w {
			t.Fatalf("slot[%d] wall clock = %s, want %s", i, got, w)
		}
	}
}
