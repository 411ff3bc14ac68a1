package grpc

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// NewServer builds a gRPC server speaking the JSON codec with tracing, request ids,
// access logs and a default per-call deadline, and registers srv on it.
func NewServer(srv BookingServiceServer, requestTimeout time.Duration, log *slog.Logger) *grpc.Server {
	if log == nil {
		log = slog.Default()
	}
	s := grpc.NewServer(
		grpc.ForceServerCodec(Codec()),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			RequestIDInterceptor(),
			AccessLogInterceptor(log.With(slog.String("component", "grpc.access"))),
			DefaultTimeoutInterceptor(requestTimeout),
		),
	)
	RegisterBookingServiceServer(s, srv)
	return s
}
