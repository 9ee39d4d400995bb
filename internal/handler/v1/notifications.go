package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.svc.Notifications.ListNotifications(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var cmd notification.CreateNotificationCommand
	if !bindJSON(c, &cmd) {
		return
	}
	n, err := h.svc.Notifications.CreateNotification(c.Request.Context(), callerFrom(c), &cmd)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, n)
}

func (h *Handler) UnreadNotifications(c *gin.Context) {
	list, err := h.svc.Notifications.GetUnread(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	n, err := h.svc.Notifications.MarkAsRead(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, n)
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	count, err := h.svc.Notifications.MarkAllAsRead(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"marked": count})
}
