package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/store"
	"cronos/backend/internal/store/memory"
)

func workshop(capacity int, attendees ...string) domain.Event {
	return domain.Event{
		ID:              "ev1",
		Name:            "Workshop de Tranças",
		Date:            time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC),
		DurationMinutes: 120,
		Capacity:        capacity,
		Attendees:       attendees,
	}
}

func TestServiceToggleAttendee(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New())
	if _, err := svc.Save(ctx, workshop(2, "c1")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	e, err := svc.ToggleAttendee(ctx, "ev1", "c2")
	if err != nil {
		t.Fatalf("ToggleAttendee add error: %v", err)
	}
	if len(e.Attendees) != 2 || !e.Full() {
		t.Fatalf("attendees = %v, want two and full", e.Attendees)
	}

	_, err = svc.ToggleAttendee(ctx, "ev1", "c3")
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Error() != "event is full" {
		t.Fatalf("error = %v, want event is full", err)
	}

	e, err = svc.ToggleAttendee(ctx, "ev1", "c1")
	if err != nil {
		t.Fatalf("ToggleAttendee remove error: %v", err)
	}
	if len(e.Attendees) != 1 || e.Attendees[0] != "c2" {
		t.Fatalf("attendees = %v, want [c2]", e.Attendees)
	}

	stored, err := svc.Get(ctx, "ev1")
	if err != nil || len(stored.Attendees) != 1 {
		t.Fatalf("stored = %+v, %v; want persisted removal", stored, err)
	}
}

func TestServiceToggleAttendee_UnknownEvent(t *testing.T) {
	svc := NewService(memory.New())
	if _, err := svc.ToggleAttendee(context.Background(), "nope", "c1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, store.ErrNotFound)
	}
}

func TestServiceSave_Validation(t *testing.T) {
	svc := NewService(memory.New())

	tests := []struct {
		name    string
		mutate  func(e *domain.Event)
		wantErr string
	}{
		{name: "no name", mutate: func(e *domain.Event) { e.Name = "" }, wantErr: "name is required"},
		{name: "no date", mutate: func(e *domain.Event) { e.Date = time.Time{} }, wantErr: "date is required"},
		{name: "zero capacity", mutate: func(e *domain.Event) { e.Capacity = 0 }, wantErr: "capacity must be positive"},
		{name: "over capacity", mutate: func(e *domain.Event) { e.Attendees = []string{"a", "b", "c"} }, wantErr: "attendees exceed capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := workshop(2)
			tt.mutate(&e)
			_, err := svc.Save(context.Background(), e)
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Error() != tt.wantErr {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestServiceList_OrderedByDate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New())

	later := workshop(10)
	earlier := workshop(10)
	earlier.ID = "ev0"
	earlier.Date = later.Date.AddDate(0, 0, -7)
	for _, e := range []domain.Event{later, earlier} {
		if _, err := svc.Save(ctx, e); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if rows[0].ID != "ev0" || rows[1].ID != "ev1" {
		t.Fatalf("rows = %+v, want ev0 then ev1", rows)
	}
	if rows[1].Attendees == nil {
		t.Fatalf("attendees decoded as nil, want empty list")
	}
}
