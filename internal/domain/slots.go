package domain

import "time"

type Interval struct {
	Start time.Time
	End   time.Time
}

// FreeSlots returns the slot start times of day's active periods where a booking of
// length duration fits without overlapping busy. Slots start every IntervalMinutes from
// the beginning of each period; slots starting before now are dropped. day only
// contributes its calendar date and location.
func FreeSlots(day time.Time, sched DaySchedule, duration time.Duration, busy []Interval, now time.Time) ([]time.Time, error) {
	if !sched.Active {
		return nil, nil
	}
	if err := sched.Validate(); err != nil {
		return nil, err
	}

	step := time.Duration(sched.IntervalMinutes) * time.Minute
	if duration <= 0 {
		duration = step
	}
	y, m, d := day.Date()
	clock := func(minutes int) time.Time {
		return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, day.Location())
	}

	var slots []time.Time
	for _, p := range sched.Periods() {
		if !p.Active {
			continue
		}
		startMin, endMin, err := p.Bounds()
		if err != nil {
			return nil, err
		}
		windowStart := clock(startMin)
		windowEnd := clock(endMin)

		for t := windowStart; !t.Add(duration).After(windowEnd); t = t.Add(step) {
			if t.Before(now) {
				continue
			}
			if !overlapsAny(t, t.Add(duration), busy) {
				slots = append(slots, t)
			}
		}
	}
	return slots, nil
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
