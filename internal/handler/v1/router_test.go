package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/config"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/infra/kv/memory"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/service"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/workflow"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	log := zaptest.NewLogger(t)
	m := metrics.NewCollector("test", prometheus.NewRegistry())

	if err := service.NewSeeder(store, config.SeedConfig{Enabled: true, DemoData: true}, log).Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	patients := repository.NewPatientRepository(store, nil)
	therapies := repository.NewTherapyRepository(store)
	practitioners := repository.NewPractitionerRepository(store)
	sessions := repository.NewSessionRepository(store, nil)
	fb := repository.NewFeedbackRepository(store, nil)
	notifications := repository.NewNotificationRepository(store, nil)
	prog := repository.NewProgressRepository(store)
	appointments := repository.NewAppointmentRepository(store, nil)
	settings := repository.NewSettingsRepository(store)

	bus := events.NewBus(log, m)
	workflow.New(workflow.Deps{
		Patients:      patients,
		Therapies:     therapies,
		Practitioners: practitioners,
		Notifications: notifications,
		Progress:      prog,
		Settings:      settings,
		Metrics:       m,
		Log:           log,
	}).Register(bus)

	audit := service.NewAuditService(repository.NewAuditRepository(store, 0), m, log)
	t.Cleanup(audit.Shutdown)

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "router-test-secret-with-enough-bytes",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "zentherapy-test",
	})

	svc := Services{
		Auth:          service.NewAuthService(repository.NewUserRepository(store, nil), repository.NewCurrentUserRepository(store), jwtManager, audit, log),
		Patients:      service.NewPatientService(patients, audit, log),
		Catalog:       service.NewCatalogService(therapies, practitioners, sessions, appointments, audit, log),
		Sessions:      service.NewSessionService(sessions, patients, therapies, practitioners, appointments, bus, audit, m, log),
		Feedback:      service.NewFeedbackService(fb, sessions, bus, audit, m, log),
		Notifications: service.NewNotificationService(notifications, bus, m, log),
		Progress:      service.NewProgressService(prog, bus, audit, m, log),
		Booking: service.NewBookingService(appointments, sessions, practitioners, therapies,
			config.BookingConfig{Rooms: []string{"Room A"}, PaymentSuccessRate: 1}, nil, audit, m, log),
		Settings:  service.NewSettingsService(settings, audit, log),
		Analytics: service.NewAnalyticsService(patients, sessions, fb, notifications, prog, appointments),
		Audit:     audit,
	}

	return NewRouter(RouterConfig{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         time.Hour,
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 1000, AuthRequestsPerMinute: 100},
		Version:   "test",
	}, svc, jwtManager, m, log)
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp APIResponse[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding %s: %v", rec.Body.String(), err)
	}
	return resp.Data
}

func login(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: email, Password: service.DemoPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
	}
	return decode[domain.TokenPair](t, rec).AccessToken
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestAuthentication(t *testing.T) {
	h := newTestRouter(t)

	if rec := do(t, h, http.MethodGet, "/api/v1/patients", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/patients", "not-a-jwt", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d", rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: "admin@zentherapy.in", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d", rec.Code)
	}

	token := login(t, h, "admin@zentherapy.in")
	rec = do(t, h, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status = %d", rec.Code)
	}
	me := decode[domain.User](t, rec)
	if me.ID != "user-admin" || me.PasswordHash != "" {
		t.Errorf("me = %+v", me)
	}
}

func TestPatientScope(t *testing.T) {
	h := newTestRouter(t)
	admin := login(t, h, "admin@zentherapy.in")
	priya := login(t, h, "priya.sharma@example.com")

	rec := do(t, h, http.MethodGet, "/api/v1/patients", admin, nil)
	if got := decode[[]patient.Patient](t, rec); len(got) != 2 {
		t.Errorf("admin sees %d patients, want 2", len(got))
	}

	rec = do(t, h, http.MethodGet, "/api/v1/patients", priya, nil)
	if got := decode[[]patient.Patient](t, rec); len(got) != 1 || got[0].ID != "patient-priya" {
		t.Errorf("patient sees %+v", got)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/patients/patient-rahul", priya, nil); rec.Code != http.StatusForbidden {
		t.Errorf("other patient's record: status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/analytics/summary", priya, nil); rec.Code != http.StatusForbidden {
		t.Errorf("patient analytics: status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/patients/nobody", admin, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown patient: status = %d", rec.Code)
	}
}

func TestBookingFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/practitioners/dr-arya-menon/slots?date=2030-10-07", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("slots: %d %s", rec.Code, rec.Body.String())
	}
	if slots := decode[[]string](t, rec); len(slots) != 8 {
		t.Errorf("slots = %v, want 8 hourly slots", slots)
	}

	priya := login(t, h, "priya.sharma@example.com")
	cmd := appointment.CreateAppointmentCommand{
		PatientName:    "Priya Sharma",
		PatientEmail:   "priya.sharma@example.com",
		PatientPhone:   "+91 98765 43210",
		PractitionerID: "dr-arya-menon",
		ServiceID:      "abhyanga",
		Date:           "2030-10-07",
		Time:           "10:00",
	}
	rec = do(t, h, http.MethodPost, "/api/v1/appointments", priya, cmd)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	a := decode[appointment.Appointment](t, rec)

	if rec := do(t, h, http.MethodPost, "/api/v1/appointments", priya, cmd); rec.Code != http.StatusConflict {
		t.Errorf("double booking: status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/appointments/"+a.ID+"/pay", priya, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pay: %d %s", rec.Code, rec.Body.String())
	}
	if paid := decode[paymentResponse](t, rec); paid.Appointment.Status != appointment.StatusConfirmed {
		t.Errorf("after payment status = %s", paid.Appointment.Status)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/appointments/"+a.ID+"/pay", priya, nil); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("second payment: status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/practitioners/dr-arya-menon/slots?date=2030-10-07", "", nil)
	if slots := decode[[]string](t, rec); len(slots) != 7 {
		t.Errorf("slots after booking = %v", slots)
	}
}

func TestScheduleSessionValidation(t *testing.T) {
	h := newTestRouter(t)
	admin := login(t, h, "admin@zentherapy.in")

	rec := do(t, h, http.MethodPost, "/api/v1/sessions", admin, session.ScheduleSessionCommand{PatientID: "patient-priya"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ValidationErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Fields) == 0 {
		t.Error("no field errors reported")
	}
}

func TestAvailablePractitionersEndpoint(t *testing.T) {
	h := newTestRouter(t)
	admin := login(t, h, "admin@zentherapy.in")

	rec := do(t, h, http.MethodGet, "/api/v1/availability/practitioners?date=2030-10-07&time=10:00", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	if got := decode[[]practitioner.Practitioner](t, rec); len(got) != 2 {
		t.Errorf("available = %d practitioners, want 2 on a Monday morning", len(got))
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/availability/practitioners?date=tomorrow&time=10:00", admin, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date: status = %d", rec.Code)
	}
}

func TestDeleteMilestoneAdminOnly(t *testing.T) {
	h := newTestRouter(t)
	arya := login(t, h, "arya.menon@zentherapy.in")
	admin := login(t, h, "admin@zentherapy.in")
	path := "/api/v1/milestones/milestone-priya-sleep"

	if rec := do(t, h, http.MethodDelete, path, arya, nil); rec.Code != http.StatusForbidden {
		t.Errorf("practitioner delete: status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, path, admin, nil); rec.Code != http.StatusOK {
		t.Fatalf("milestone gone after rejected delete: status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, path, admin, nil); rec.Code != http.StatusNoContent {
		t.Errorf("admin delete: status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/patients", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&service.ValidationError{Fields: []string{"name is required"}}, http.StatusBadRequest},
		{fmt.Errorf("loading: %w", patient.ErrPatientNotFound), http.StatusNotFound},
		{session.ErrPractitionerDoubleBooked, http.StatusConflict},
		{appointment.ErrSlotTaken, http.StatusConflict},
		{session.ErrInvalidStatusTransition, http.StatusUnprocessableEntity},
		{service.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrAccountLocked, http.StatusTooManyRequests},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	log := zaptest.NewLogger(t)
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			respondServiceError(c, log, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestIPLimiter(t *testing.T) {
	l := newIPLimiter(1, 2)
	now := time.Now()

	if !l.allow("10.0.0.1", now) || !l.allow("10.0.0.1", now) {
		t.Fatal("burst requests rejected")
	}
	if l.allow("10.0.0.1", now) {
		t.Error("request over burst allowed")
	}
	if !l.allow("10.0.0.2", now) {
		t.Error("other client limited")
	}
	if !l.allow("10.0.0.1", now.Add(time.Second)) {
		t.Error("bucket did not refill")
	}
}
