package domain

import (
	"errors"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

const clockLayout = "15:04"

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the template keys in calendar order starting on Monday.
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// indexed by time.Weekday, so the lookup is total.
var weekdayKeys = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func WeekdayOf(wd time.Weekday) Weekday {
	return weekdayKeys[int(wd)%7]
}

func (w Weekday) Valid() bool {
	for _, k := range Weekdays {
		if k == w {
			return true
		}
	}
	return false
}

type TimeRange struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Active bool   `json:"active"`
}

// Bounds returns the range as minutes since midnight.
func (r TimeRange) Bounds() (start, end int, err error) {
	s, err := time.Parse(clockLayout, r.Start)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start %q", r.Start)
	}
	e, err := time.Parse(clockLayout, r.End)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end %q", r.End)
	}
	return s.Hour()*60 + s.Minute(), e.Hour()*60 + e.Minute(), nil
}

type DaySchedule struct {
	Active          bool      `json:"active"`
	IntervalMinutes int       `json:"intervalMinutes"`
	Morning         TimeRange `json:"morning"`
	Afternoon       TimeRange `json:"afternoon"`
	Night           TimeRange `json:"night"`
}

// Periods returns the morning, afternoon and night ranges in that order.
func (d DaySchedule) Periods() []TimeRange {
	return []TimeRange{d.Morning, d.Afternoon, d.Night}
}

func (d DaySchedule) Validate() error {
	if d.IntervalMinutes <= 0 {
		return errors.New("intervalMinutes must be positive")
	}
	names := [3]string{"morning", "afternoon", "night"}
	for i, p := range d.Periods() {
		if !p.Active {
			continue
		}
		start, end, err := p.Bounds()
		if err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
		if start >= end {
			return fmt.Errorf("%s: start must be before end", names[i])
		}
	}
	return nil
}

// WeekAvailability maps every weekday to its template. Only active days are validated;
// a closed day's ranges are never used.
type WeekAvailability map[Weekday]DaySchedule

func (w WeekAvailability) Validate() error {
	if len(w) != len(Weekdays) {
		return fmt.Errorf("expected %d weekdays, got %d", len(Weekdays), len(w))
	}
	for key, day := range w {
		if !key.Valid() {
			return fmt.Errorf("unknown weekday %q", key)
		}
		if !day.Active {
			continue
		}
		if err := day.Validate(); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

type DayException struct {
	Date     string      `json:"date"`
	Schedule DaySchedule `json:"schedule"`
}

func (e DayException) RecordID() string { return e.Date }

// Resolve returns the effective schedule for date. An exception recorded for the exact
// date replaces the weekly template, even when it marks the day closed.
func Resolve(date time.Time, week WeekAvailability, exceptions []DayException) (DaySchedule, error) {
	key := date.Format(DateLayout)
	for _, ex := range exceptions {
		if ex.Date == key {
			return ex.Schedule, nil
		}
	}

	wd := WeekdayOf(date.Weekday())
	day, ok := week[wd]
	if !ok {
		return DaySchedule{}, &ConfigurationError{Weekday: wd}
	}
	return day, nil
}

// DefaultWeek is the template used before the business stores its own.
func DefaultWeek() WeekAvailability {
	day := DaySchedule{
		Active:          true,
		IntervalMinutes: 60,
		Morning:         TimeRange{Start: "09:00", End: "12:00", Active: true},
		Afternoon:       TimeRange{Start: "13:00", End: "18:00", Active: true},
		Night:           TimeRange{Start: "19:00", End: "21:00", Active: false},
	}

	saturday := day
	saturday.Afternoon.Active = false
	sunday := day
	sunday.Active = false

	return WeekAvailability{
		Monday:    day,
		Tuesday:   day,
		Wednesday: day,
		Thursday:  day,
		Friday:    day,
		Saturday:  saturday,
		Sunday:    sunday,
	}
}
