package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/feedback"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/therapy"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// respondServiceError maps service and domain errors onto HTTP statuses.
// Anything unrecognised is logged and reported as a 500 without detail.
func respondServiceError(c *gin.Context, log *zap.Logger, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, therapy.ErrTherapyNotFound),
		errors.Is(err, practitioner.ErrPractitionerNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, feedback.ErrFeedbackNotFound),
		errors.Is(err, notification.ErrNotificationNotFound),
		errors.Is(err, progress.ErrMilestoneNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNoCurrentUser):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrSlotTaken),
		errors.Is(err, session.ErrPatientDoubleBooked),
		errors.Is(err, session.ErrPractitionerDoubleBooked),
		errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, session.ErrInvalidStatusTransition),
		errors.Is(err, progress.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrAlreadyPaid),
		errors.Is(err, practitioner.ErrOutsideWorkingHours):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})

	case errors.Is(err, session.ErrInvalidStatus),
		errors.Is(err, progress.ErrInvalidStatus),
		errors.Is(err, progress.ErrInvalidCategory),
		errors.Is(err, patient.ErrInvalidStatus),
		errors.Is(err, patient.ErrInvalidConstitution),
		errors.Is(err, therapy.ErrInvalidCategory),
		errors.Is(err, therapy.ErrInvalidDuration),
		errors.Is(err, therapy.ErrNegativePrice),
		errors.Is(err, practitioner.ErrInvalidWorkingHours),
		errors.Is(err, notification.ErrInvalidType),
		errors.Is(err, notification.ErrInvalidPriority),
		errors.Is(err, feedback.ErrInvalidMood):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, domain.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account disabled", Code: "ACCOUNT_DISABLED"})

	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	default:
		log.Error("unhandled service error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}
