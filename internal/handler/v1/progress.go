package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
)

func (h *Handler) ListMilestones(c *gin.Context) {
	list, err := h.svc.Progress.ListMilestones(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) CreateMilestone(c *gin.Context) {
	var cmd progress.CreateMilestoneCommand
	if !bindJSON(c, &cmd) {
		return
	}
	m, err := h.svc.Progress.CreateMilestone(c.Request.Context(), callerFrom(c), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, m)
}

func (h *Handler) ProgressStats(c *gin.Context) {
	st, err := h.svc.Progress.Stats(c.Request.Context(), callerFrom(c), c.Query("patientId"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, st)
}

func (h *Handler) GetMilestone(c *gin.Context) {
	m, err := h.svc.Progress.GetMilestone(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, m)
}

func (h *Handler) UpdateMilestone(c *gin.Context) {
	var cmd progress.UpdateMilestoneCommand
	if !bindJSON(c, &cmd) {
		return
	}
	m, err := h.svc.Progress.UpdateMilestone(c.Request.Context(), callerFrom(c), c.Param("id"), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, m)
}

func (h *Handler) DeleteMilestone(c *gin.Context) {
	if err := h.svc.Progress.DeleteMilestone(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
