package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"darkveil/internal/api"
	"darkveil/internal/config"
	"darkveil/internal/domain"
	"darkveil/internal/gateway"
	"darkveil/internal/logging"
	"darkveil/internal/metrics"
	"darkveil/internal/repository"
	"darkveil/internal/service"
	"darkveil/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	fixtures, err := loadFixtures(&logger)
	if err != nil {
		return err
	}

	st := store.New(fixtures.Services, fixtures.Barbers, fixtures.Announcements, &logger)
	st.SeedAppointments(fixtures.Appointments)

	gw := gateway.New(st, fixtures.TimeSlots, cfg.Gateway, &logger)

	states, redisClient := initStateRepository(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	sessions := service.NewSessionService(st, gw, states, cfg.Booking, &logger)
	httpServer := api.NewHTTPServer(cfg.API, st, gw, sessions, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	return startServers(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "main").Logger()

	return cfg, logger, closer, nil
}

func loadFixtures(logger *zerolog.Logger) (*config.Fixtures, error) {
	fixturesPath := os.Getenv("FIXTURES_PATH")
	if fixturesPath == "" {
		fixturesPath = "configs/fixtures.yaml"
	}

	fixtures, err := config.LoadFixtures(fixturesPath)
	if err != nil {
		logger.Error().Err(err).Str("fixtures_path", fixturesPath).Msg("load fixtures")
		return nil, err
	}

	logger.Info().
		Int("services", len(fixtures.Services)).
		Int("barbers", len(fixtures.Barbers)).
		Int("announcements", len(fixtures.Announcements)).
		Msg("fixtures loaded")
	return fixtures, nil
}

// initStateRepository wires flow-state persistence: Redis behind a
// memory failover when configured, plain memory otherwise.
func initStateRepository(cfg *config.Config, logger *zerolog.Logger) (domain.FlowStateRepository, *redis.Client) {
	ttl := time.Duration(cfg.Booking.FlowStateTTLHours) * time.Hour
	memory := repository.NewMemoryStateRepository(ttl)

	if cfg.Redis.Address == "" {
		return memory, nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with memory state")
		_ = redisClient.Close()
		return memory, nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	primary := repository.NewRedisStateRepository(redisClient, ttl)
	return repository.NewFailoverStateRepository(primary, memory, logger), redisClient
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServers(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
