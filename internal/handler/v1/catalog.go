package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/therapy"
)

func (h *Handler) ListTherapies(c *gin.Context) {
	list, err := h.svc.Catalog.ListTherapies(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) GetTherapy(c *gin.Context) {
	t, err := h.svc.Catalog.GetTherapy(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, t)
}

func (h *Handler) CreateTherapy(c *gin.Context) {
	var t therapy.TherapyType
	if !bindJSON(c, &t) {
		return
	}
	created, err := h.svc.Catalog.CreateTherapy(c.Request.Context(), callerFrom(c), &t)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, created)
}

func (h *Handler) UpdateTherapy(c *gin.Context) {
	var cmd therapy.UpdateTherapyCommand
	if !bindJSON(c, &cmd) {
		return
	}
	t, err := h.svc.Catalog.UpdateTherapy(c.Request.Context(), callerFrom(c), c.Param("id"), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, t)
}

func (h *Handler) DeleteTherapy(c *gin.Context) {
	if err := h.svc.Catalog.DeleteTherapy(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListPractitioners(c *gin.Context) {
	list, err := h.svc.Catalog.ListPractitioners(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) GetPractitioner(c *gin.Context) {
	p, err := h.svc.Catalog.GetPractitioner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) CreatePractitioner(c *gin.Context) {
	var p practitioner.Practitioner
	if !bindJSON(c, &p) {
		return
	}
	created, err := h.svc.Catalog.CreatePractitioner(c.Request.Context(), callerFrom(c), &p)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, created)
}

func (h *Handler) UpdatePractitioner(c *gin.Context) {
	var cmd practitioner.UpdatePractitionerCommand
	if !bindJSON(c, &cmd) {
		return
	}
	p, err := h.svc.Catalog.UpdatePractitioner(c.Request.Context(), callerFrom(c), c.Param("id"), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) DeletePractitioner(c *gin.Context) {
	if err := h.svc.Catalog.DeletePractitioner(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AvailablePractitioners answers ?date=YYYY-MM-DD&time=HH:mm.
func (h *Handler) AvailablePractitioners(c *gin.Context) {
	list, err := h.svc.Catalog.GetAvailablePractitioners(c.Request.Context(), c.Query("date"), c.Query("time"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) AvailableSlots(c *gin.Context) {
	slots, err := h.svc.Booking.GenerateAvailableSlots(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, slots)
}
