package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/config"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
	v1 "github.com/dmehra2102/prod-golang-projects/zentherapy/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/infra/storage"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/service"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/worker"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/workflow"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/awsclient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/secrets"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/tlsconfig"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/tracer"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("zentherapy-api exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	m := metrics.NewCollector("zentherapy", prometheus.DefaultRegisterer)

	if cfg.JWT.Secret == "" {
		awsCfg, err := awsclient.Load(ctx, cfg.AWS)
		if err != nil {
			return err
		}
		secret, err := secrets.NewResolverFromConfig(awsCfg).Resolve(ctx, cfg.AWS.JWTSecretARN)
		if err != nil {
			return fmt.Errorf("resolving jwt secret: %w", err)
		}
		cfg.JWT.Secret = secret
	}

	store, err := storage.Open(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := service.NewSeeder(store, cfg.Seed, log).Seed(ctx); err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	outbox, err := openOutbox(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer outbox.Close()

	patients := repository.NewPatientRepository(store, nil)
	therapies := repository.NewTherapyRepository(store)
	practitioners := repository.NewPractitionerRepository(store)
	sessions := repository.NewSessionRepository(store, nil)
	feedback := repository.NewFeedbackRepository(store, nil)
	notifications := repository.NewNotificationRepository(store, nil)
	progress := repository.NewProgressRepository(store)
	appointments := repository.NewAppointmentRepository(store, nil)
	settings := repository.NewSettingsRepository(store)

	bus := events.NewBus(log, m)
	reminders := workflow.New(workflow.Deps{
		Patients:      patients,
		Therapies:     therapies,
		Practitioners: practitioners,
		Notifications: notifications,
		Progress:      progress,
		Settings:      settings,
		Outbox:        outbox,
		Metrics:       m,
		Log:           log,
	})
	reminders.Register(bus)

	auditSvc := service.NewAuditService(repository.NewAuditRepository(store, 0), m, log)
	defer auditSvc.Shutdown()

	jwtManager := auth.NewJWTManager(cfg.JWT)
	progressSvc := service.NewProgressService(progress, bus, auditSvc, m, log)

	svc := v1.Services{
		Auth:          service.NewAuthService(repository.NewUserRepository(store, nil), repository.NewCurrentUserRepository(store), jwtManager, auditSvc, log),
		Patients:      service.NewPatientService(patients, auditSvc, log),
		Catalog:       service.NewCatalogService(therapies, practitioners, sessions, appointments, auditSvc, log),
		Sessions:      service.NewSessionService(sessions, patients, therapies, practitioners, appointments, bus, auditSvc, m, log),
		Feedback:      service.NewFeedbackService(feedback, sessions, bus, auditSvc, m, log),
		Notifications: service.NewNotificationService(notifications, bus, m, log),
		Progress:      progressSvc,
		Booking:       service.NewBookingService(appointments, sessions, practitioners, therapies, cfg.Booking, nil, auditSvc, m, log),
		Settings:      service.NewSettingsService(settings, auditSvc, log),
		Analytics:     service.NewAnalyticsService(patients, sessions, feedback, notifications, progress, appointments),
		Audit:         auditSvc,
	}

	router := v1.NewRouter(v1.RouterConfig{
		CORS:      cfg.CORS,
		RateLimit: cfg.RateLimit,
		Version:   cfg.App.Version,
	}, svc, jwtManager, m, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	if cfg.Server.TLSEnabled() {
		tlsCfg, err := tlsconfig.Server(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile, cfg.Server.TLSClientCAFile)
		if err != nil {
			return err
		}
		srv.TLSConfig = tlsCfg
	}

	metricsSrv := &http.Server{
		Addr:    cfg.Server.MetricsAddress(),
		Handler: metrics.Handler(prometheus.DefaultGatherer),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("api listening", zap.String("addr", srv.Addr), zap.Bool("tls", srv.TLSConfig != nil))
		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		log.Info("metrics listening", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Reminder.Enabled {
		w := worker.NewReminderWorker(sessions, settings, reminders, bus, progressSvc, cfg.Reminder.Interval, log)
		g.Go(func() error { return w.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

func openOutbox(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Collector) (notify.Publisher, error) {
	var next notify.Publisher
	switch cfg.Outbox.Driver {
	case config.OutboxLog:
		return notify.NewLogPublisher(log), nil
	case config.OutboxKafka:
		next = notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	case config.OutboxSQS:
		awsCfg, err := awsclient.Load(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		next = notify.NewSQSPublisherFromConfig(awsCfg, cfg.AWS.SQSQueueURL)
	default:
		return nil, fmt.Errorf("unknown outbox driver %q", cfg.Outbox.Driver)
	}

	log.Info("outbox enabled", zap.String("driver", cfg.Outbox.Driver))
	return notify.NewBreaker(next, cfg.Outbox.Driver, cfg.Outbox.BreakerMaxFailures, cfg.Outbox.BreakerOpenTimeout, log, m), nil
}
