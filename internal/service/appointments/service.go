package appointments

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/publish"
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

// ConflictError reports that a booking overlaps an existing one. It matches
// store.ErrConflict with errors.Is.
type ConflictError struct {
	ProviderID string
	Start      time.Time
	End        time.Time
}

func (e *ConflictError) Error() string {
	if e.ProviderID == "" {
		return "time slot already booked"
	}
	return fmt.Sprintf("time slot already booked for provider %s", e.ProviderID)
}

func (e *ConflictError) Unwrap() error {
	return store.ErrConflict
}

// SaveResult is a stored appointment plus the outcome of its side effects. Warnings
// describe side effects that failed without undoing the save.
type SaveResult struct {
	Appointment domain.Appointment
	Transaction *domain.Transaction
	Warnings    []string
}

type Service struct {
	appointments *store.Collection[domain.Appointment]
	transactions *store.Collection[domain.Transaction]
	publisher    publish.Publisher
	scope        domain.ProviderScope
	now          func() time.Time
	log          *slog.Logger
	tracer       trace.Tracer

	// held across the conflict check and the write
	mu sync.Mutex
}

type Option func(*Service)

func WithPublisher(p publish.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithProviderScope(scope domain.ProviderScope) Option {
	return func(s *Service) {
		if scope != "" {
			s.scope = scope
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(backend store.Backend, opts ...Option) *Service {
	s := &Service{
		appointments: store.NewCollection[domain.Appointment](backend, store.CollectionAppointments),
		transactions: store.NewCollection[domain.Transaction](backend, store.CollectionTransactions),
		publisher:    publish.Nop{},
		scope:        domain.ScopeStrict,
		now:          time.Now,
		log:          slog.Default(),
		tracer:       otel.Tracer("cronos/backend/service/appointments"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(slog.String("component", "service.appointments"))
	return s
}

// Save creates or replaces an appointment. It fails with *ValidationError for malformed
// input and *ConflictError when the slot overlaps another booking of the same provider
// scope. A first save with a paid price also records an income transaction.
func (s *Service) Save(ctx context.Context, appt domain.Appointment) (SaveResult, error) {
	ctx, span := s.tracer.Start(ctx, "appointments.Save")
	defer span.End()

	appt, err := normalize(appt)
	if err != nil {
		return SaveResult{}, err
	}
	if appt.ID == "" {
		id, err := domain.NewID()
		if err != nil {
			return SaveResult{}, err
		}
		appt.ID = id
	}
	span.SetAttributes(
		attribute.String("appointment.id", appt.ID),
		attribute.String("appointment.provider_id", appt.ProviderID),
	)

	res, events, err := s.persist(ctx, span, appt)
	if err != nil {
		return SaveResult{}, err
	}

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.log.Warn("event publish failed", slog.Any("err", err), slog.String("appointment_id", appt.ID))
		res.Warnings = append(res.Warnings, "appointment saved but change notification failed: "+err.Error())
	}

	return res, nil
}

// persist runs the conflict check, the write and the derived transaction under the
// booking mutex. It returns the events to publish once the mutex is released.
func (s *Service) persist(ctx context.Context, span trace.Span, appt domain.Appointment) (SaveResult, []publish.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.appointments.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "load appointments")
		return SaveResult{}, nil, err
	}

	if domain.HasConflict(appt.Start, appt.End, appt.ProviderID, appt.ID, rows, s.scope) {
		span.SetAttributes(attribute.Bool("appointment.conflict", true))
		return SaveResult{}, nil, &ConflictError{ProviderID: appt.ProviderID, Start: appt.Start, End: appt.End}
	}

	replaced := false
	for i := range rows {
		if rows[i].ID == appt.ID {
			rows[i] = appt
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, appt)
	}
	if err := s.appointments.Replace(ctx, rows); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "store appointments")
		return SaveResult{}, nil, err
	}

	res := SaveResult{Appointment: appt}
	events := []publish.Event{{Type: publish.AppointmentSaved, Key: appt.ID, Payload: appt, OccurredAt: s.now()}}

	if appt.Paid() {
		tx, created, err := s.recordPayment(ctx, appt)
		switch {
		case err != nil:
			s.log.Warn("derived transaction failed", slog.Any("err", err), slog.String("appointment_id", appt.ID))
			res.Warnings = append(res.Warnings, "appointment saved but its payment transaction could not be recorded: "+err.Error())
		case created:
			res.Transaction = &tx
			events = append(events, publish.Event{Type: publish.TransactionCreated, Key: tx.ID, Payload: tx, OccurredAt: s.now()})
		}
	}

	return res, events, nil
}

// recordPayment creates the income transaction for appt unless one already references it.
func (s *Service) recordPayment(ctx context.Context, appt domain.Appointment) (domain.Transaction, bool, error) {
	_, found, err := s.transactions.Find(ctx, func(t domain.Transaction) bool {
		return t.RelatedAppointmentID == appt.ID
	})
	if err != nil {
		return domain.Transaction{}, false, err
	}
	if found {
		return domain.Transaction{}, false, nil
	}

	id, err := domain.NewID()
	if err != nil {
		return domain.Transaction{}, false, err
	}
	tx := domain.TransactionForAppointment(id, appt, s.now())
	if err := s.transactions.Put(ctx, tx); err != nil {
		return domain.Transaction{}, false, err
	}
	return tx, true, nil
}

// Delete removes an appointment. Transactions derived from it are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return validationError("id is required")
	}

	s.mu.Lock()
	removed, err := s.appointments.Delete(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if removed {
		ev := publish.Event{Type: publish.AppointmentDeleted, Key: id, Payload: map[string]string{"id": id}, OccurredAt: s.now()}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.log.Warn("event publish failed", slog.Any("err", err), slog.String("appointment_id", id))
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Appointment, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Appointment{}, validationError("id is required")
	}
	return s.appointments.Get(ctx, id)
}

type Filter struct {
	From             time.Time
	To               time.Time
	ProviderID       string
	ClientID         string
	Status           domain.AppointmentStatus
	IncludeCancelled bool
}

// List returns appointments matching f ordered by start. From/To select appointments
// overlapping the window; zero values leave that side open.
func (s *Service) List(ctx context.Context, f Filter) ([]domain.Appointment, error) {
	if !f.From.IsZero() && !f.To.IsZero() && !f.To.After(f.From) {
		return nil, validationError("window end must be after window start")
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationError("invalid status")
	}

	rows, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, a := range rows {
		if a.Cancelled() && !f.IncludeCancelled && f.Status != domain.StatusCancelled {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.ProviderID != "" && a.ProviderID != f.ProviderID {
			continue
		}
		if f.ClientID != "" && a.ClientID != f.ClientID {
			continue
		}
		if !f.To.IsZero() && !a.Start.Before(f.To) {
			continue
		}
		if !f.From.IsZero() && !a.End.After(f.From) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// CheckConflict runs the conflict check against the stored appointments without saving.
func (s *Service) CheckConflict(ctx context.Context, start, end time.Time, providerID, excludeID string) (bool, error) {
	if start.IsZero() || end.IsZero() {
		return false, validationError("start and end are required")
	}
	if !end.After(start) {
		return false, validationError("end must be after start")
	}
	rows, err := s.appointments.List(ctx)
	if err != nil {
		return false, err
	}
	return domain.HasConflict(start.UTC(), end.UTC(), strings.TrimSpace(providerID), excludeID, rows, s.scope), nil
}

// SetStatus moves an appointment through the service pipeline. The change goes through
// Save, so reactivating a cancelled booking is checked for conflicts again.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.AppointmentStatus) (SaveResult, error) {
	if !status.Valid() {
		return SaveResult{}, validationError("invalid status")
	}
	appt, err := s.Get(ctx, id)
	if err != nil {
		return SaveResult{}, err
	}
	appt.Status = status
	return s.Save(ctx, appt)
}

// Scope returns the provider scoping used for conflict checks.
func (s *Service) Scope() domain.ProviderScope {
	return s.scope
}

func normalize(a domain.Appointment) (domain.Appointment, error) {
	a.ID = strings.TrimSpace(a.ID)
	a.ClientID = strings.TrimSpace(a.ClientID)
	a.ProviderID = strings.TrimSpace(a.ProviderID)
	a.ServiceID = strings.TrimSpace(a.ServiceID)
	a.Title = strings.TrimSpace(a.Title)

	if a.Start.IsZero() || a.End.IsZero() {
		return a, validationError("start and end are required")
	}
	a.Start = a.Start.UTC()
	a.End = a.End.UTC()
	if !a.End.After(a.Start) {
		return a, validationError("end must be after start")
	}

	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	if !a.Status.Valid() {
		return a, validationError("invalid status")
	}
	if a.Type == "" {
		a.Type = domain.AppointmentTypeService
	}
	if !a.Type.Valid() {
		return a, validationError("invalid type")
	}
	if a.Type == domain.AppointmentTypeService && a.ClientID == "" {
		return a, validationError("clientId is required")
	}
	if a.PaymentStatus != "" && !a.PaymentStatus.Valid() {
		return a, validationError("invalid paymentStatus")
	}
	if a.PaymentMethod != "" && !a.PaymentMethod.Valid() {
		return a, validationError("invalid paymentMethod")
	}
	if a.Price < 0 {
		return a, validationError("price must not be negative")
	}
	return a, nil
}
