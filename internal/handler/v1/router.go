// Package v1 is the REST surface of the clinic API under /api/v1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/config"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/service"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

type Services struct {
	Auth          *service.AuthService
	Patients      *service.PatientService
	Catalog       *service.CatalogService
	Sessions      *service.SessionService
	Feedback      *service.FeedbackService
	Notifications *service.NotificationService
	Progress      *service.ProgressService
	Booking       *service.BookingService
	Settings      *service.SettingsService
	Analytics     *service.AnalyticsService
	Audit         *service.AuditService
}

type RouterConfig struct {
	CORS      config.CORSConfig
	RateLimit config.RateLimitConfig
	Version   string
}

type Handler struct {
	svc Services
	log *zap.Logger
}

func NewRouter(cfg RouterConfig, svc Services, jwtManager *auth.JWTManager, m *metrics.Collector, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery(log), AccessLog(log))
	if m != nil {
		r.Use(Metrics(m))
	}
	r.Use(CORS(cfg.CORS), RateLimit(cfg.RateLimit))

	h := &Handler{svc: svc, log: log}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.Version})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth", AuthRateLimit(cfg.RateLimit))
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)

	// Public booking flow.
	api.GET("/therapies", h.ListTherapies)
	api.GET("/therapies/:id", h.GetTherapy)
	api.GET("/practitioners", h.ListPractitioners)
	api.GET("/practitioners/:id", h.GetPractitioner)
	api.GET("/practitioners/:id/slots", h.AvailableSlots)

	p := api.Group("", Authenticate(jwtManager))
	staff := RequireRole(domain.RoleAdmin, domain.RolePractitioner)
	admin := RequireRole(domain.RoleAdmin)

	p.GET("/auth/me", h.Me)
	p.POST("/auth/logout", h.Logout)
	p.POST("/auth/password", h.ChangePassword)
	p.GET("/auth/current", h.CurrentUser)

	p.GET("/patients", h.ListPatients)
	p.POST("/patients", staff, h.CreatePatient)
	p.GET("/patients/:id", h.GetPatient)
	p.PATCH("/patients/:id", h.UpdatePatient)
	p.DELETE("/patients/:id", admin, h.DeletePatient)
	p.GET("/patients/:id/sessions", h.PatientSessions)
	p.GET("/patients/:id/feedback", h.PatientFeedback)
	p.GET("/patients/:id/notifications", h.PatientNotifications)
	p.GET("/patients/:id/milestones", h.PatientMilestones)
	p.GET("/patients/:id/progress-stats", h.PatientProgressStats)
	p.GET("/patients/:id/average-rating", h.PatientAverageRating)

	p.POST("/therapies", admin, h.CreateTherapy)
	p.PATCH("/therapies/:id", admin, h.UpdateTherapy)
	p.DELETE("/therapies/:id", admin, h.DeleteTherapy)

	p.GET("/availability/practitioners", staff, h.AvailablePractitioners)
	p.POST("/practitioners", admin, h.CreatePractitioner)
	p.PATCH("/practitioners/:id", staff, h.UpdatePractitioner)
	p.DELETE("/practitioners/:id", admin, h.DeletePractitioner)
	p.GET("/practitioners/:id/sessions", staff, h.PractitionerSessions)

	p.GET("/sessions", h.ListSessions)
	p.POST("/sessions", h.ScheduleSession)
	p.GET("/sessions/upcoming", h.UpcomingSessions)
	p.GET("/sessions/stats", h.SessionStats)
	p.GET("/sessions/:id", h.GetSession)
	p.PATCH("/sessions/:id", h.UpdateSession)
	p.PUT("/sessions/:id/status", h.UpdateSessionStatus)
	p.DELETE("/sessions/:id", admin, h.DeleteSession)
	p.GET("/sessions/:id/feedback", h.SessionFeedback)

	p.GET("/feedback", h.ListFeedback)
	p.POST("/feedback", h.SubmitFeedback)
	p.GET("/feedback/average", staff, h.AverageRating)
	p.GET("/feedback/:id", h.GetFeedback)
	p.PATCH("/feedback/:id", h.UpdateFeedback)
	p.DELETE("/feedback/:id", admin, h.DeleteFeedback)

	p.GET("/notifications", h.ListNotifications)
	p.POST("/notifications", staff, h.CreateNotification)
	p.GET("/notifications/unread", h.UnreadNotifications)
	p.POST("/notifications/read-all", h.MarkAllNotificationsRead)
	p.POST("/notifications/:id/read", h.MarkNotificationRead)

	p.GET("/milestones", h.ListMilestones)
	p.POST("/milestones", staff, h.CreateMilestone)
	p.GET("/milestones/stats", staff, h.ProgressStats)
	p.GET("/milestones/:id", h.GetMilestone)
	p.PATCH("/milestones/:id", staff, h.UpdateMilestone)
	p.DELETE("/milestones/:id", admin, h.DeleteMilestone)

	p.GET("/appointments", h.ListAppointments)
	p.POST("/appointments", h.CreateAppointment)
	p.GET("/appointments/:id", h.GetAppointment)
	p.PATCH("/appointments/:id", staff, h.UpdateAppointment)
	p.POST("/appointments/:id/pay", h.PayAppointment)
	p.POST("/appointments/:id/cancel", h.CancelAppointment)
	p.POST("/appointments/:id/complete", staff, h.CompleteAppointment)

	p.GET("/settings", h.GetSettings)
	p.PUT("/settings", admin, h.UpdateSettings)

	p.GET("/analytics/summary", staff, h.AnalyticsSummary)
	p.GET("/audit", admin, h.RecentAudit)

	return r
}
