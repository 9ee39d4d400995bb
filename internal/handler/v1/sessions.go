package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
)

type statusRequest struct {
	Status session.Status `json:"status" binding:"required"`
}

func (h *Handler) ListSessions(c *gin.Context) {
	ctx, caller := c.Request.Context(), callerFrom(c)

	var (
		list []session.Session
		err  error
	)
	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		list, err = h.svc.Sessions.GetByDateRange(ctx, caller, from, to)
	} else {
		list, err = h.svc.Sessions.ListSessions(ctx, caller)
	}
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) ScheduleSession(c *gin.Context) {
	var cmd session.ScheduleSessionCommand
	if !bindJSON(c, &cmd) {
		return
	}
	s, err := h.svc.Sessions.ScheduleSession(c.Request.Context(), callerFrom(c), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, s)
}

func (h *Handler) UpcomingSessions(c *gin.Context) {
	list, err := h.svc.Sessions.GetUpcoming(c.Request.Context(), callerFrom(c), parseQueryInt(c, "limit", 5))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) SessionStats(c *gin.Context) {
	st, err := h.svc.Sessions.Stats(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, st)
}

func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.svc.Sessions.GetSession(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, s)
}

func (h *Handler) UpdateSession(c *gin.Context) {
	var cmd session.UpdateSessionCommand
	if !bindJSON(c, &cmd) {
		return
	}
	s, err := h.svc.Sessions.UpdateSession(c.Request.Context(), callerFrom(c), c.Param("id"), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, s)
}

func (h *Handler) UpdateSessionStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.Sessions.UpdateStatus(c.Request.Context(), callerFrom(c), c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, s)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.svc.Sessions.DeleteSession(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PractitionerSessions(c *gin.Context) {
	list, err := h.svc.Sessions.GetByPractitioner(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) SessionFeedback(c *gin.Context) {
	list, err := h.svc.Feedback.GetBySession(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}
