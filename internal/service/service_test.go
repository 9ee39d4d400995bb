package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/config"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/infra/kv/memory"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/workflow"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

// Tuesday.
var now = time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

const (
	arya   = "dr-arya-menon"  // Mon-Fri 09-17, Sat 10-14
	vikram = "dr-vikram-nair" // Mon-Sat 10-18
)

var (
	admin = Caller{UserID: "user-admin", Role: domain.RoleAdmin}
	staff = Caller{UserID: "user-arya", Role: domain.RolePractitioner, PractitionerID: arya}
)

func patientCaller(id string) Caller {
	return Caller{UserID: "user-" + id, Role: domain.RolePatient, PatientID: id}
}

type fixedRandom struct {
	f float64
	i int
}

func (r fixedRandom) Float64() float64 { return r.f }
func (r fixedRandom) IntN(n int) int   { return r.i % n }

type nopOutbox struct{}

func (nopOutbox) Publish(context.Context, notify.Message) error { return nil }
func (nopOutbox) Close() error                                  { return nil }

type fixture struct {
	ctx   context.Context
	store *memory.Store

	patientRepo      *repository.PatientRepository
	sessionRepo      *repository.SessionRepository
	notificationRepo *repository.NotificationRepository
	progressRepo     *repository.ProgressRepository
	appointmentRepo  *repository.AppointmentRepository
	userRepo         *repository.UserRepository

	audit         *AuditService
	patients      *PatientService
	catalog       *CatalogService
	sessions      *SessionService
	feedback      *FeedbackService
	notifications *NotificationService
	progress      *ProgressService
	booking       *BookingService
	analytics     *AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	clock := func() time.Time { return now }
	log := zaptest.NewLogger(t)
	m := metrics.NewCollector("test", prometheus.NewRegistry())

	seeder := NewSeeder(store, config.SeedConfig{Enabled: true}, log)
	if err := seeder.Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	f := &fixture{
		ctx:              ctx,
		store:            store,
		patientRepo:      repository.NewPatientRepository(store, clock),
		sessionRepo:      repository.NewSessionRepository(store, clock),
		notificationRepo: repository.NewNotificationRepository(store, clock),
		progressRepo:     repository.NewProgressRepository(store),
		appointmentRepo:  repository.NewAppointmentRepository(store, clock),
		userRepo:         repository.NewUserRepository(store, clock),
	}
	therapies := repository.NewTherapyRepository(store)
	practitioners := repository.NewPractitionerRepository(store)
	feedbackRepo := repository.NewFeedbackRepository(store, clock)

	bus := events.NewBus(log, m)
	workflow.New(workflow.Deps{
		Patients:      f.patientRepo,
		Therapies:     therapies,
		Practitioners: practitioners,
		Notifications: f.notificationRepo,
		Progress:      f.progressRepo,
		Settings:      repository.NewSettingsRepository(store),
		Outbox:        nopOutbox{},
		Metrics:       m,
		Log:           log,
		Now:           clock,
	}).Register(bus)

	f.audit = NewAuditService(repository.NewAuditRepository(store, 0), m, log)
	t.Cleanup(f.audit.Shutdown)

	f.patients = NewPatientService(f.patientRepo, f.audit, log)
	f.patients.now = clock
	f.catalog = NewCatalogService(therapies, practitioners, f.sessionRepo, f.appointmentRepo, f.audit, log)
	f.sessions = NewSessionService(f.sessionRepo, f.patientRepo, therapies, practitioners, f.appointmentRepo, bus, f.audit, m, log)
	f.sessions.now = clock
	f.feedback = NewFeedbackService(feedbackRepo, f.sessionRepo, bus, f.audit, m, log)
	f.feedback.now = clock
	f.notifications = NewNotificationService(f.notificationRepo, bus, m, log)
	f.notifications.now = clock
	f.progress = NewProgressService(f.progressRepo, bus, f.audit, m, log)
	f.progress.now = clock
	f.booking = NewBookingService(f.appointmentRepo, f.sessionRepo, practitioners, therapies,
		config.BookingConfig{Rooms: []string{"Room A", "Room B"}, PaymentSuccessRate: 0.9},
		fixedRandom{f: 0.5, i: 1}, f.audit, m, log)
	f.analytics = NewAnalyticsService(f.patientRepo, f.sessionRepo, feedbackRepo, f.notificationRepo, f.progressRepo, f.appointmentRepo)

	return f
}

func (f *fixture) addPatient(t *testing.T, name string) string {
	t.Helper()
	p, err := f.patients.CreatePatient(f.ctx, admin, &patient.CreatePatientCommand{
		Name:         name,
		Email:        "patient@example.com",
		Phone:        "+91 90000 00000",
		Constitution: patient.ConstitutionVata,
	})
	if err != nil {
		t.Fatalf("CreatePatient() error = %v", err)
	}
	return p.ID
}
