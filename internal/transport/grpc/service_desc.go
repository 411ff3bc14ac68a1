package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	"cronos/backend/internal/domain"
)

const bookingServiceName = "cronos.v1.BookingService"

type SaveAppointmentRequest struct {
	Appointment domain.Appointment `json:"appointment"`
}

type SaveAppointmentResponse struct {
	Appointment domain.Appointment  `json:"appointment"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
}

type AppointmentRequest struct {
	ID string `json:"id"`
}

type AppointmentResponse struct {
	Appointment domain.Appointment `json:"appointment"`
}

type ListAppointmentsRequest struct {
	WindowStart      time.Time `json:"windowStart"`
	WindowEnd        time.Time `json:"windowEnd"`
	ProviderID       string    `json:"providerId,omitempty"`
	ClientID         string    `json:"clientId,omitempty"`
	Status           string    `json:"status,omitempty"`
	IncludeCancelled bool      `json:"includeCancelled,omitempty"`
}

type ListAppointmentsResponse struct {
	Appointments []domain.Appointment `json:"appointments"`
}

type CheckConflictRequest struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ProviderID string    `json:"providerId,omitempty"`
	ExcludeID  string    `json:"excludeId,omitempty"`
}

type CheckConflictResponse struct {
	Conflict bool `json:"conflict"`
}

type ResolveDayRequest struct {
	Date string `json:"date"`
}

type ResolveDayResponse struct {
	Date     string             `json:"date"`
	Schedule domain.DaySchedule `json:"schedule"`
}

type ListFreeSlotsRequest struct {
	Date            string `json:"date"`
	ProviderID      string `json:"providerId,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

type ListFreeSlotsResponse struct {
	Slots []time.Time `json:"slots"`
}

type BookingServiceServer interface {
	SaveAppointment(context.Context, *SaveAppointmentRequest) (*SaveAppointmentResponse, error)
	GetAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	DeleteAppointment(context.Context, *AppointmentRequest) (*emptypb.Empty, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	CheckConflict(context.Context, *CheckConflictRequest) (*CheckConflictResponse, error)
	ResolveDay(context.Context, *ResolveDayRequest) (*ResolveDayResponse, error)
	ListFreeSlots(context.Context, *ListFreeSlotsRequest) (*ListFreeSlotsResponse, error)
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&BookingServiceDesc, srv)
}

var BookingServiceDesc = grpc.ServiceDesc{
	ServiceName: bookingServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SaveAppointment", Handler: unaryHandler("SaveAppointment", BookingServiceServer.SaveAppointment)},
		{MethodName: "GetAppointment", Handler: unaryHandler("GetAppointment", BookingServiceServer.GetAppointment)},
		{MethodName: "DeleteAppointment", Handler: unaryHandler("DeleteAppointment", BookingServiceServer.DeleteAppointment)},
		{MethodName: "ListAppointments", Handler: unaryHandler("ListAppointments", BookingServiceServer.ListAppointments)},
		{MethodName: "CheckConflict", Handler: unaryHandler("CheckConflict", BookingServiceServer.CheckConflict)},
		{MethodName: "ResolveDay", Handler: unaryHandler("ResolveDay", BookingServiceServer.ResolveDay)},
		{MethodName: "ListFreeSlots", Handler: unaryHandler("ListFreeSlots", BookingServiceServer.ListFreeSlots)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cronos/v1/booking.proto",
}

// FullMethod returns the gRPC method path for a BookingService rpc.
func FullMethod(rpc string) string {
	return "/" + bookingServiceName + "/" + rpc
}

func unaryHandler[Req, Resp any](rpc string, call func(BookingServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(rpc)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BookingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
