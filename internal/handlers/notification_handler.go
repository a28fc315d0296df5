package handlers

import (
	"github.com/gin-gonic/gin"

	"pickupapp/internal/services"
	"pickupapp/internal/utils"
	"pickupapp/pkg/websocket"
)

type NotificationHandler struct {
	notifications services.NotificationService
	ws            *websocket.Handler
}

// NewNotificationHandler accepts a nil ws handler when websockets are disabled.
func NewNotificationHandler(notifications services.NotificationService, ws *websocket.Handler) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		ws:            ws,
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	items, err := h.notifications.List(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Notifications retrieved successfully", items, len(items))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramObjectID(c, "id", "notification")
	if !ok {
		return
	}
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), id, p.ID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", nil)
}

// Stream upgrades to a websocket that receives the caller's notifications.
func (h *NotificationHandler) Stream(c *gin.Context) {
	if h.ws == nil {
		utils.NotFoundResponse(c, "Notification stream")
		return
	}
	p, ok := principal(c)
	if !ok {
		return
	}

	h.ws.Serve(c, p.ID, string(p.Kind))
}
