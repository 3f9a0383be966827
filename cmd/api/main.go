package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medhub/clinic-api/internal/config"
	"github.com/medhub/clinic-api/internal/email"
	adminHandler "github.com/medhub/clinic-api/internal/handler/admin"
	appointmentHandler "github.com/medhub/clinic-api/internal/handler/appointment"
	"github.com/medhub/clinic-api/internal/handler/dashboard"
	doctorHandler "github.com/medhub/clinic-api/internal/handler/doctor"
	"github.com/medhub/clinic-api/internal/handler/health"
	patientHandler "github.com/medhub/clinic-api/internal/handler/patient"
	prescriptionHandler "github.com/medhub/clinic-api/internal/handler/prescription"
	"github.com/medhub/clinic-api/internal/repository/postgres"
	"github.com/medhub/clinic-api/internal/router"
	adminService "github.com/medhub/clinic-api/internal/service/admin"
	appointmentService "github.com/medhub/clinic-api/internal/service/appointment"
	doctorService "github.com/medhub/clinic-api/internal/service/doctor"
	patientService "github.com/medhub/clinic-api/internal/service/patient"
	prescriptionService "github.com/medhub/clinic-api/internal/service/prescription"
	"github.com/medhub/clinic-api/pkg/messaging/redis"
	"github.com/medhub/clinic-api/pkg/metrics"
	"github.com/medhub/clinic-api/pkg/token"
	"github.com/medhub/clinic-api/pkg/worker"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.Logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	adminRepo := postgres.NewAdminRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	tokens := token.NewService(token.Config{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})
	mailer := email.NewService(cfg.SMTP, logger)

	appointmentSvc := appointmentService.NewService(
		appointmentRepo, patientRepo, doctorRepo, outboxRepo, tokens, mailer, logger)
	patientSvc := patientService.NewService(patientRepo, appointmentRepo, tokens, logger)
	doctorSvc := doctorService.NewService(doctorRepo, tokens, logger)
	adminSvc := adminService.NewService(adminRepo, tokens, logger)
	prescriptionSvc := prescriptionService.NewService(
		prescriptionRepo, appointmentRepo, outboxRepo, logger)

	m := metrics.New("clinic_api")

	engine := router.New(
		router.Options{
			Logger:       logger,
			RateLimit:    cfg.RateLimit,
			Metrics:      m,
			TemplateGlob: cfg.Server.TemplateGlob,
		},
		appointmentHandler.NewHandler(appointmentSvc, tokens),
		patientHandler.NewHandler(patientSvc, tokens),
		prescriptionHandler.NewHandler(prescriptionSvc, tokens),
		doctorHandler.NewHandler(doctorSvc, tokens),
		adminHandler.NewHandler(adminSvc),
		dashboard.NewHandler(tokens),
		health.NewHandler(db),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// The broker is optional: without Redis the API still serves requests
	// and outbox rows simply accumulate as pending.
	if cfg.Redis.URL != "" {
		broker, err := redis.NewBroker(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer broker.Close()

		processor := worker.NewOutboxProcessor(
			outboxRepo, broker, cfg.Redis.Channel,
			cfg.Outbox.BatchSize, cfg.Outbox.PollInterval, m, logger)
		go processor.Start(workerCtx)
	} else {
		logger.Warn().Msg("redis url not configured, outbox events will not be published")
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server...")

	stopWorker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited properly")
}
