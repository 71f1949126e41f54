package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

type NotificationHandler struct {
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	list, err := h.notifications.List(dbcOf(c), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	response.RespondOK(c, gin.H{"notifications": list, "unread": unread})
}

// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(dbcOf(c), userID, id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	n, err := h.notifications.MarkAllRead(dbcOf(c), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": n})
}
