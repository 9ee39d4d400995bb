package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
)

func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.svc.Settings.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, s)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var next domain.Settings
	if !bindJSON(c, &next) {
		return
	}
	s, err := h.svc.Settings.Update(c.Request.Context(), callerFrom(c), next)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, s)
}

func (h *Handler) AnalyticsSummary(c *gin.Context) {
	sum, err := h.svc.Analytics.Summary(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, sum)
}

func (h *Handler) RecentAudit(c *gin.Context) {
	list, err := h.svc.Audit.Recent(c.Request.Context(), callerFrom(c), parseQueryInt(c, "limit", 100))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}
