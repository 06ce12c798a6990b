package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/alshifa-clinic/booking-api/internal/config"
	appointmentHandler "github.com/alshifa-clinic/booking-api/internal/handler/appointment"
	authHandler "github.com/alshifa-clinic/booking-api/internal/handler/auth"
	directoryHandler "github.com/alshifa-clinic/booking-api/internal/handler/directory"
	"github.com/alshifa-clinic/booking-api/internal/middleware"
	"github.com/alshifa-clinic/booking-api/internal/repository/kv"
	"github.com/alshifa-clinic/booking-api/internal/router"
	"github.com/alshifa-clinic/booking-api/internal/seed"
	"github.com/alshifa-clinic/booking-api/internal/service/auth"
	"github.com/alshifa-clinic/booking-api/internal/service/availability"
	"github.com/alshifa-clinic/booking-api/internal/service/booking"
	"github.com/alshifa-clinic/booking-api/internal/service/directory"
	"github.com/alshifa-clinic/booking-api/internal/service/lifecycle"
	"github.com/alshifa-clinic/booking-api/internal/service/query"
	"github.com/alshifa-clinic/booking-api/internal/store"
	"github.com/alshifa-clinic/booking-api/pkg/logger"
	"github.com/alshifa-clinic/booking-api/pkg/messaging"
	memorybroker "github.com/alshifa-clinic/booking-api/pkg/messaging/memory"
	redisbroker "github.com/alshifa-clinic/booking-api/pkg/messaging/redis"
	"github.com/alshifa-clinic/booking-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	// Broker: redis when configured, otherwise in-process only.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		broker = memorybroker.New()
	}

	m := metrics.New("clinic")

	// Entity store backend.
	var backend store.KV
	switch cfg.Store.Backend {
	case "memory":
		backend = store.NewMemoryKV()
	case "postgres":
		backend, err = store.NewPostgresKV(store.PostgresConfig{
			Host:     cfg.Store.Host,
			Port:     cfg.Store.Port,
			User:     cfg.Store.User,
			Password: cfg.Store.Password,
			Name:     cfg.Store.Name,
			SSLMode:  cfg.Store.SSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open postgres store")
		}
	default:
		backend, err = store.NewFileKV(cfg.Store.Path, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open file store")
		}
	}

	entityStore := store.New(backend, broker, log, m)
	defer entityStore.Close()

	userRepo := kv.NewUserRepository(entityStore)
	doctorRepo := kv.NewDoctorRepository(entityStore)
	departmentRepo := kv.NewDepartmentRepository(entityStore)
	appointmentRepo := kv.NewAppointmentRepository(entityStore)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seed.EnsureDefaults(ctx, seed.Repositories{
		Users:       userRepo,
		Doctors:     doctorRepo,
		Departments: departmentRepo,
	}, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed defaults")
	}

	availabilitySvc := availability.NewService(appointmentRepo, m, log)
	if err := availabilitySvc.WatchChanges(ctx, entityStore); err != nil {
		log.Fatal().Err(err).Msg("failed to watch store changes")
	}
	bookingSvc := booking.NewService(appointmentRepo, doctorRepo, departmentRepo, availabilitySvc, m, log)
	lifecycleSvc := lifecycle.NewService(appointmentRepo, m, log)
	querySvc := query.NewService(appointmentRepo)
	directorySvc := directory.NewService(doctorRepo, departmentRepo, log)
	authSvc := auth.NewService(userRepo, auth.Config{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.New(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(bookingSvc, lifecycleSvc, querySvc, availabilitySvc),
		directoryHandler.NewHandler(directorySvc, authMiddleware),
		router.Config{
			RateLimit:        rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:        cfg.Server.RateLimitBurst,
			CORSConfig:       middleware.DefaultCORSConfig(),
			MetricsNamespace: "clinic",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("store", cfg.Store.Backend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := broker.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close broker")
	}
}
