package availability

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/service/appointments"
	"cronos/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type bookings interface {
	List(ctx context.Context, f appointments.Filter) ([]domain.Appointment, error)
	Scope() domain.ProviderScope
}

type Service struct {
	week       *store.Document[domain.WeekAvailability]
	exceptions *store.Collection[domain.DayException]
	bookings   bookings
	loc        *time.Location
	now        func() time.Time
	log        *slog.Logger
}

// NewService builds the availability service. Calendar dates are interpreted in loc;
// a nil loc means UTC.
func NewService(backend store.Backend, b bookings, loc *time.Location, log *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		week:       store.NewDocument[domain.WeekAvailability](backend, store.CollectionAvailability),
		exceptions: store.NewCollection[domain.DayException](backend, store.CollectionExceptions),
		bookings:   b,
		loc:        loc,
		now:        time.Now,
		log:        log.With(slog.String("component", "service.availability")),
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Week returns the stored weekly template, or the default one when none was saved.
func (s *Service) Week(ctx context.Context) (domain.WeekAvailability, error) {
	week, found, err := s.week.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.DefaultWeek(), nil
	}
	return week, nil
}

func (s *Service) SaveWeek(ctx context.Context, week domain.WeekAvailability) error {
	if err := week.Validate(); err != nil {
		return validationError(err.Error())
	}
	return s.week.Store(ctx, week)
}

func (s *Service) Exceptions(ctx context.Context) ([]domain.DayException, error) {
	return s.exceptions.List(ctx)
}

// SaveException records the schedule for one calendar date, replacing any earlier
// exception for the same date.
func (s *Service) SaveException(ctx context.Context, ex domain.DayException) (domain.DayException, error) {
	ex.Date = strings.TrimSpace(ex.Date)
	if _, err := s.ParseDate(ex.Date); err != nil {
		return domain.DayException{}, err
	}
	if ex.Schedule.Active {
		if err := ex.Schedule.Validate(); err != nil {
			return domain.DayException{}, validationError(err.Error())
		}
	}
	if err := s.exceptions.Put(ctx, ex); err != nil {
		return domain.DayException{}, err
	}
	return ex, nil
}

func (s *Service) DeleteException(ctx context.Context, date string) error {
	removed, err := s.exceptions.Delete(ctx, strings.TrimSpace(date))
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}
	return nil
}

// ParseDate reads a YYYY-MM-DD calendar date as midnight in the service location.
func (s *Service) ParseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(date), s.loc)
	if err != nil {
		return time.Time{}, validationError("date must be YYYY-MM-DD")
	}
	return d, nil
}

// Resolve returns the effective schedule for date.
func (s *Service) Resolve(ctx context.Context, date time.Time) (domain.DaySchedule, error) {
	week, err := s.Week(ctx)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	exceptions, err := s.exceptions.List(ctx)
	if err != nil {
		return domain.DaySchedule{}, err
	}

	sched, err := domain.Resolve(date.In(s.loc), week, exceptions)
	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		s.log.Error("availability template incomplete", slog.String("weekday", string(cfgErr.Weekday)))
	}
	return sched, err
}

// FreeSlots lists bookable start times on date for providerID. Slots overlapping a
// non-cancelled booking in the same provider scope, or already in the past, are omitted.
func (s *Service) FreeSlots(ctx context.Context, date time.Time, providerID string, duration time.Duration) ([]time.Time, error) {
	if duration < 0 {
		return nil, validationError("duration must not be negative")
	}
	day := date.In(s.loc)
	sched, err := s.Resolve(ctx, day)
	if err != nil {
		return nil, err
	}
	if !sched.Active {
		return nil, nil
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	existing, err := s.bookings.List(ctx, appointments.Filter{From: midnight, To: midnight.AddDate(0, 0, 1)})
	if err != nil {
		return nil, err
	}
	busy := domain.BusyIntervals(strings.TrimSpace(providerID), existing, s.bookings.Scope())

	slots, err := domain.FreeSlots(day, sched, duration, busy, s.now())
	if err != nil {
		return nil, validationError(err.Error())
	}
	return slots, nil
}
