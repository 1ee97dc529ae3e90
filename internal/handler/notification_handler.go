package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-spark/events-api/internal/service"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
	"github.com/campus-spark/events-api/pkg/response"
)

// NotificationHandler serves derived, role-specific notifications.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a new handler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// AdminNotifications godoc
// @Summary Notifications for the acting admin
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/notifications [get]
func (h *NotificationHandler) AdminNotifications(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.notifications.AdminNotifications(c.Request.Context(), claims.Email, time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// StudentNotifications godoc
// @Summary Notifications for the authenticated student
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/notifications [get]
func (h *NotificationHandler) StudentNotifications(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.notifications.StudentNotifications(c.Request.Context(), claims.Email, time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
