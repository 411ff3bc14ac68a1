package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/service/appointments"
	"cronos/backend/internal/service/availability"
	"cronos/backend/internal/store"
)

type BookingServer struct {
	appts appointmentsService
	avail availabilityService
	log   *slog.Logger
}

type appointmentsService interface {
	Save(ctx context.Context, appt domain.Appointment) (appointments.SaveResult, error)
	Get(ctx context.Context, id string) (domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f appointments.Filter) ([]domain.Appointment, error)
	CheckConflict(ctx context.Context, start, end time.Time, providerID, excludeID string) (bool, error)
}

type availabilityService interface {
	ParseDate(date string) (time.Time, error)
	Resolve(ctx context.Context, date time.Time) (domain.DaySchedule, error)
	FreeSlots(ctx context.Context, date time.Time, providerID string, duration time.Duration) ([]time.Time, error)
}

var _ BookingServiceServer = (*BookingServer)(nil)

func NewBookingServer(appts appointmentsService, avail availabilityService, log *slog.Logger) *BookingServer {
	if log == nil {
		log = slog.Default()
	}
	return &BookingServer{
		appts: appts,
		avail: avail,
		log:   log.With(slog.String("component", "grpc.booking")),
	}
}

func (s *BookingServer) SaveAppointment(ctx context.Context, req *SaveAppointmentRequest) (*SaveAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "SaveAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	in := req.Appointment
	if in.Start.IsZero() || in.End.IsZero() {
		log.Warn("invalid request", slog.String("reason", "missing_times"), slog.String("provider_id", in.ProviderID))
		return nil, status.Error(codes.InvalidArgument, "start and end are required")
	}

	res, err := s.appts.Save(ctx, in)
	if err != nil {
		var cErr *appointments.ConflictError
		if errors.As(err, &cErr) {
			log.Info(
				"appointment save conflict",
				slog.String("provider_id", cErr.ProviderID),
				slog.Time("start", cErr.Start),
				slog.Time("end", cErr.End),
			)
			return nil, status.Error(codes.FailedPrecondition, "That time is already booked. Pick a different slot.")
		}
		return nil, toStatus(log, "appointment save failed", err)
	}

	for _, w := range res.Warnings {
		log.Warn("appointment saved with warning", slog.String("appointment_id", res.Appointment.ID), slog.String("warning", w))
	}
	log.Info(
		"appointment saved",
		slog.String("appointment_id", res.Appointment.ID),
		slog.String("provider_id", res.Appointment.ProviderID),
		slog.Time("start", res.Appointment.Start),
		slog.Time("end", res.Appointment.End),
		slog.Bool("transaction_created", res.Transaction != nil),
	)

	return &SaveAppointmentResponse{
		Appointment: res.Appointment,
		Transaction: res.Transaction,
		Warnings:    res.Warnings,
	}, nil
}

func (s *BookingServer) GetAppointment(ctx context.Context, req *AppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "GetAppointment"))

	if req == nil || req.ID == "" {
		log.Warn("invalid request", slog.String("reason", "missing_id"))
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	appt, err := s.appts.Get(ctx, req.ID)
	if err != nil {
		return nil, toStatus(log.With(slog.String("appointment_id", req.ID)), "appointment get failed", err)
	}
	return &AppointmentResponse{Appointment: appt}, nil
}

func (s *BookingServer) DeleteAppointment(ctx context.Context, req *AppointmentRequest) (*emptypb.Empty, error) {
	log := s.log.With(slog.String("rpc", "DeleteAppointment"))

	if req == nil || req.ID == "" {
		log.Warn("invalid request", slog.String("reason", "missing_id"))
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	if err := s.appts.Delete(ctx, req.ID); err != nil {
		return nil, toStatus(log.With(slog.String("appointment_id", req.ID)), "appointment delete failed", err)
	}

	log.Info("appointment deleted", slog.String("appointment_id", req.ID))
	return &emptypb.Empty{}, nil
}

func (s *BookingServer) ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAppointments"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	appts, err := s.appts.List(ctx, appointments.Filter{
		From:             req.WindowStart,
		To:               req.WindowEnd,
		ProviderID:       req.ProviderID,
		ClientID:         req.ClientID,
		Status:           domain.AppointmentStatus(req.Status),
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		return nil, toStatus(log, "appointments list failed", err)
	}

	log.Debug(
		"appointments listed",
		slog.Int("count", len(appts)),
		slog.Time("window_start", req.WindowStart),
		slog.Time("window_end", req.WindowEnd),
	)
	if appts == nil {
		appts = []domain.Appointment{}
	}
	return &ListAppointmentsResponse{Appointments: appts}, nil
}

func (s *BookingServer) CheckConflict(ctx context.Context, req *CheckConflictRequest) (*CheckConflictResponse, error) {
	log := s.log.With(slog.String("rpc", "CheckConflict"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	conflict, err := s.appts.CheckConflict(ctx, req.Start, req.End, req.ProviderID, req.ExcludeID)
	if err != nil {
		return nil, toStatus(log, "conflict check failed", err)
	}
	return &CheckConflictResponse{Conflict: conflict}, nil
}

func (s *BookingServer) ResolveDay(ctx context.Context, req *ResolveDayRequest) (*ResolveDayResponse, error) {
	log := s.log.With(slog.String("rpc", "ResolveDay"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	date, err := s.avail.ParseDate(req.Date)
	if err != nil {
		return nil, toStatus(log, "invalid date", err)
	}
	sched, err := s.avail.Resolve(ctx, date)
	if err != nil {
		return nil, toStatus(log.With(slog.String("date", req.Date)), "day resolve failed", err)
	}
	return &ResolveDayResponse{Date: date.Format(domain.DateLayout), Schedule: sched}, nil
}

func (s *BookingServer) ListFreeSlots(ctx context.Context, req *ListFreeSlotsRequest) (*ListFreeSlotsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListFreeSlots"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.DurationMinutes < 0 {
		log.Warn("invalid request", slog.String("reason", "negative_duration"))
		return nil, status.Error(codes.InvalidArgument, "durationMinutes must not be negative")
	}
	date, err := s.avail.ParseDate(req.Date)
	if err != nil {
		return nil, toStatus(log, "invalid date", err)
	}

	slots, err := s.avail.FreeSlots(ctx, date, req.ProviderID, time.Duration(req.DurationMinutes)*time.Minute)
	if err != nil {
		return nil, toStatus(log.With(slog.String("date", req.Date)), "free slots failed", err)
	}
	if slots == nil {
		slots = []time.Time{}
	}
	return &ListFreeSlotsResponse{Slots: slots}, nil
}

// toStatus maps service errors to gRPC codes and logs at the matching level.
func toStatus(log *slog.Logger, msg string, err error) error {
	var (
		apptErr  *appointments.ValidationError
		availErr *availability.ValidationError
		cfgErr   *domain.ConfigurationError
	)
	switch {
	case errors.As(err, &apptErr), errors.As(err, &availErr):
		log.Warn("invalid request", slog.Any("err", err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, store.ErrConflict):
		log.Info("conflict", slog.Any("err", err))
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, store.ErrNotFound):
		log.Info("not found", slog.Any("err", err))
		return status.Error(codes.NotFound, "not found")
	case errors.As(err, &cfgErr):
		log.Error("availability misconfigured", slog.Any("err", err))
		return status.Error(codes.FailedPrecondition, "availability template is incomplete")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn(msg, slog.Any("err", err))
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		log.Info(msg, slog.Any("err", err))
		return status.Error(codes.Canceled, "request canceled")
	}
	log.Error(msg, slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}
