package assistant

import (
	"context"
	"strings"
	"time"

	"cronos/backend/internal/domain"
)

// ExtractedAppointment is a booking proposal read from free text. It is shown to the
// user for confirmation before anything is stored.
type ExtractedAppointment struct {
	Title      string    `json:"title"`
	ClientName string    `json:"clientName"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Notes      string    `json:"notes,omitempty"`
}

// Candidate turns the proposal into a pending service appointment for clientID. It is
// saved through the regular appointment path.
func (e ExtractedAppointment) Candidate(clientID string) domain.Appointment {
	return domain.Appointment{
		ClientID: strings.TrimSpace(clientID),
		Title:    e.Title,
		Start:    e.Start,
		End:      e.End,
		Notes:    e.Notes,
		Status:   domain.StatusPending,
		Type:     domain.AppointmentTypeService,
	}
}

// Suggester extracts a booking proposal from a natural-language request. A nil
// proposal with a nil error means the assistant is unavailable or found nothing.
type Suggester interface {
	Suggest(ctx context.Context, text string, reference time.Time) (*ExtractedAppointment, error)
	Reminder(ctx context.Context, clientName string, at time.Time, service string) string
}

// Disabled is used when no API key is configured.
type Disabled struct {
	Location *time.Location
}

func (Disabled) Suggest(context.Context, string, time.Time) (*ExtractedAppointment, error) {
	return nil, nil
}

func (d Disabled) Reminder(_ context.Context, clientName string, at time.Time, service string) string {
	return FallbackReminder(clientName, at, service, d.Location)
}

// FallbackReminder is the fixed reminder text used without a model.
func FallbackReminder(clientName string, at time.Time, service string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return "Olá " + clientName + ", lembrete do seu agendamento: " + service + " às " + at.In(loc).Format("02/01 15:04") + "."
}
