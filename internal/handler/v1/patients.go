package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
)

func (h *Handler) ListPatients(c *gin.Context) {
	list, err := h.svc.Patients.ListPatients(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var cmd patient.CreatePatientCommand
	if !bindJSON(c, &cmd) {
		return
	}
	p, err := h.svc.Patients.CreatePatient(c.Request.Context(), callerFrom(c), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, p)
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.svc.Patients.GetPatient(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var cmd patient.UpdatePatientCommand
	if !bindJSON(c, &cmd) {
		return
	}
	p, err := h.svc.Patients.UpdatePatient(c.Request.Context(), callerFrom(c), c.Param("id"), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if err := h.svc.Patients.DeletePatient(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PatientSessions(c *gin.Context) {
	list, err := h.svc.Sessions.GetByPatient(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) PatientFeedback(c *gin.Context) {
	list, err := h.svc.Feedback.GetByPatient(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) PatientNotifications(c *gin.Context) {
	list, err := h.svc.Notifications.GetByPatient(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) PatientMilestones(c *gin.Context) {
	list, err := h.svc.Progress.GetMilestones(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) PatientProgressStats(c *gin.Context) {
	st, err := h.svc.Progress.Stats(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, st)
}

func (h *Handler) PatientAverageRating(c *gin.Context) {
	avg, err := h.svc.Feedback.AverageRating(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"averageRating": avg})
}
