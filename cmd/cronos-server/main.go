package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"

	"cronos/backend/internal/assistant"
	"cronos/backend/internal/config"
	"cronos/backend/internal/publish"
	"cronos/backend/internal/seed"
	"cronos/backend/internal/service/appointments"
	"cronos/backend/internal/service/availability"
	"cronos/backend/internal/service/catalog"
	"cronos/backend/internal/service/events"
	"cronos/backend/internal/service/finance"
	"cronos/backend/internal/service/forms"
	"cronos/backend/internal/store"
	"cronos/backend/internal/store/memory"
	"cronos/backend/internal/store/postgres"
	"cronos/backend/internal/store/redisstore"
	"cronos/backend/internal/telemetry"
	grpcTransport "cronos/backend/internal/transport/grpc"
	"cronos/backend/internal/transport/rest"
)

const serviceName = "cronos-server"

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	log.Info("starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("storage", cfg.StorageBackend),
		slog.String("provider_scope", string(cfg.ProviderScope)),
		slog.String("timezone", cfg.Location.String()),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Error("telemetry setup failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("telemetry shutdown failed", slog.Any("err", err))
		}
	}()

	backend, rdb, closeBackend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Error("storage open failed", slog.Any("err", err), slog.String("storage", cfg.StorageBackend))
		os.Exit(1)
	}
	defer closeBackend()

	if cfg.SeedDemo {
		if err := seed.Demo(ctx, backend, time.Now(), log); err != nil {
			log.Error("demo seed failed", slog.Any("err", err))
			os.Exit(1)
		}
	}

	var publisher publish.Publisher = publish.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := publish.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn("kafka writer close failed", slog.Any("err", err))
			}
		}()
		publisher = kp
		log.Info("publishing booking events", slog.String("brokers", strings.Join(cfg.KafkaBrokers, ",")))
	}

	appts := appointments.NewService(backend,
		appointments.WithPublisher(publisher),
		appointments.WithProviderScope(cfg.ProviderScope),
		appointments.WithLogger(log),
	)
	avail := availability.NewService(backend, appts, cfg.Location, log)

	var suggester assistant.Suggester = assistant.Disabled{Location: cfg.Location}
	if cfg.AssistantAPIKey != "" {
		g, err := assistant.NewGemini(ctx, assistant.GeminiConfig{
			APIKey:   cfg.AssistantAPIKey,
			Model:    cfg.AssistantModel,
			Location: cfg.Location,
		}, log)
		if err != nil {
			log.Error("assistant client failed", slog.Any("err", err))
			os.Exit(1)
		}
		suggester = g
	} else {
		log.Info("assistant disabled: no api key configured")
	}

	var counter rest.Counter = rest.NewMemoryCounter()
	if rdb != nil {
		counter = rest.NewRedisCounter(rdb)
	}
	limiter := rest.NewRateLimiter(counter, cfg.AssistantRateLimit, time.Minute, cfg.RedisPrefix+":ratelimit:assistant", log)

	handler := rest.NewHandler(rest.Services{
		Appointments: appts,
		Availability: avail,
		Catalog:      catalog.NewService(backend),
		Events:       events.NewService(backend),
		Forms:        forms.NewService(backend),
		Finance:      finance.NewService(backend, cfg.Location),
		Assistant:    suggester,
	}, log, rest.WithCORSOrigins(cfg.CORSOrigins), rest.WithAssistantLimiter(limiter))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(handler.Router(), "cronos.rest"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpcTransport.NewServer(grpcTransport.NewBookingServer(appts, avail, log), cfg.GRPCRequestTimeout, log)
	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		os.Exit(1)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	log.Info("servers started", slog.String("grpc_addr", cfg.GRPCAddr()), slog.String("http_addr", cfg.HTTPAddr))

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server stopped with error", slog.Any("err", err))
		exitCode = 1
	}
	shutdown(log, grpcServer, httpServer, cfg.ShutdownTimeout)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// openBackend returns the configured document store. The redis client is returned as
// well so the rate limiter can share it; it is nil for other backends.
func openBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Backend, *redis.Client, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
		db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		})
		if err != nil {
			args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
			log.Error("database connection failed", args...)
			return nil, nil, nil, err
		}
		closeDB := func() {
			if err := postgres.Close(db); err != nil {
				log.Warn("database close failed", slog.Any("err", err))
			}
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			closeDB()
			return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return postgres.NewCollectionRepo(db), nil, closeDB, nil

	case config.BackendRedis:
		rdb, err := redisstore.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("redis: %w", err)
		}
		closeRedis := func() {
			if err := rdb.Close(); err != nil {
				log.Warn("redis close failed", slog.Any("err", err))
			}
		}
		return redisstore.New(rdb, cfg.RedisPrefix), rdb, closeRedis, nil

	default:
		log.Warn("using in-memory storage; data is lost on restart")
		return memory.New(), nil, func() {}, nil
	}
}

func shutdown(log *slog.Logger, g *grpc.Server, h *http.Server, timeout time.Duration) {
	log.Info("shutting down servers", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown failed", slog.Any("err", err))
	}

	done := make(chan struct{})
	go func() {
		g.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		g.Stop()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
