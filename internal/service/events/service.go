package events

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cronos/backend/internal/domain"
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

type Service struct {
	events *store.Collection[domain.Event]

	// serialises read-modify-write of attendee lists
	mu sync.Mutex
}

func NewService(backend store.Backend) *Service {
	return &Service{events: store.NewCollection[domain.Event](backend, store.CollectionEvents)}
}

// List returns events ordered by date.
func (s *Service) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Event, error) {
	return s.events.Get(ctx, id)
}

func (s *Service) Save(ctx context.Context, e domain.Event) (domain.Event, error) {
	e.ID = strings.TrimSpace(e.ID)
	e.Name = strings.TrimSpace(e.Name)
	switch {
	case e.Name == "":
		return domain.Event{}, validationError("name is required")
	case e.Date.IsZero():
		return domain.Event{}, validationError("date is required")
	case e.DurationMinutes <= 0:
		return domain.Event{}, validationError("durationMinutes must be positive")
	case e.Capacity <= 0:
		return domain.Event{}, validationError("capacity must be positive")
	case len(e.Attendees) > e.Capacity:
		return domain.Event{}, validationError("attendees exceed capacity")
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	e.Date = e.Date.UTC()
	if e.ID == "" {
		id, err := domain.NewID()
		if err != nil {
			return domain.Event{}, err
		}
		e.ID = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.events.Put(ctx, e); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.events.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}
	return nil
}

// ToggleAttendee removes clientID from the event when registered and adds it otherwise.
// Adding to a full event fails.
func (s *Service) ToggleAttendee(ctx context.Context, eventID, clientID string) (domain.Event, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return domain.Event{}, validationError("clientId is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.events.Get(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return domain.Event{}, err
	}

	attendees := make([]string, 0, len(e.Attendees)+1)
	registered := false
	for _, id := range e.Attendees {
		if id == clientID {
			registered = true
			continue
		}
		attendees = append(attendees, id)
	}
	if !registered {
		if e.Full() {
			return domain.Event{}, validationError("event is full")
		}
		attendees = append(attendees, clientID)
	}
	e.Attendees = attendees

	if err := s.events.Put(ctx, e); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}
