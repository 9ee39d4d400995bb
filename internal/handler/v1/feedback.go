package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/feedback"
)

func (h *Handler) ListFeedback(c *gin.Context) {
	list, err := h.svc.Feedback.ListFeedback(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	var cmd feedback.SubmitFeedbackCommand
	if !bindJSON(c, &cmd) {
		return
	}
	f, err := h.svc.Feedback.SubmitFeedback(c.Request.Context(), callerFrom(c), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, f)
}

// AverageRating averages across every patient; the per-patient variant lives
// under /patients/:id.
func (h *Handler) AverageRating(c *gin.Context) {
	avg, err := h.svc.Feedback.AverageRating(c.Request.Context(), callerFrom(c), "")
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"averageRating": avg})
}

func (h *Handler) GetFeedback(c *gin.Context) {
	f, err := h.svc.Feedback.GetFeedback(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, f)
}

func (h *Handler) UpdateFeedback(c *gin.Context) {
	var cmd feedback.UpdateFeedbackCommand
	if !bindJSON(c, &cmd) {
		return
	}
	f, err := h.svc.Feedback.UpdateFeedback(c.Request.Context(), callerFrom(c), c.Param("id"), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, f)
}

func (h *Handler) DeleteFeedback(c *gin.Context) {
	if err := h.svc.Feedback.DeleteFeedback(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
