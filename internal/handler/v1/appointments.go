package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/appointment"
)

type paymentResponse struct {
	Appointment *appointment.Appointment   `json:"appointment"`
	Payment     *appointment.PaymentResult `json:"payment"`
}

func (h *Handler) ListAppointments(c *gin.Context) {
	list, err := h.svc.Booking.ListAppointments(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var cmd appointment.CreateAppointmentCommand
	if !bindJSON(c, &cmd) {
		return
	}
	a, err := h.svc.Booking.CreateAppointment(c.Request.Context(), callerFrom(c), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, a)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	a, err := h.svc.Booking.GetAppointment(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, a)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var cmd appointment.UpdateAppointmentCommand
	if !bindJSON(c, &cmd) {
		return
	}
	a, err := h.svc.Booking.UpdateAppointment(c.Request.Context(), callerFrom(c), c.Param("id"), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, a)
}

// PayAppointment answers 402 when the simulated gateway declines; the booking
// stays pending so the client can retry.
func (h *Handler) PayAppointment(c *gin.Context) {
	a, result, err := h.svc.Booking.PayForAppointment(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	status := http.StatusOK
	if !result.Success {
		status = http.StatusPaymentRequired
	}
	c.JSON(status, APIResponse[paymentResponse]{Data: paymentResponse{Appointment: a, Payment: result}})
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	a, err := h.svc.Booking.CancelAppointment(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, a)
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	a, err := h.svc.Booking.CompleteAppointment(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, a)
}
