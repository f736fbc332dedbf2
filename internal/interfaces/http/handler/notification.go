package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/application/notification"
)

// NotificationHandler serves the caller's notification inbox
type NotificationHandler struct {
	BaseHandler
	inbox *notification.InboxService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(inbox *notification.InboxService) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// List godoc
// @ID           listNotifications
// @Summary      List notifications
// @Description  List the caller's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Success      200 {object} dto.Response{data=[]notification.NotificationResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	items, err := h.inbox.List(c.Request.Context(), t, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// UnreadCount godoc
// @ID           unreadNotificationCount
// @Summary      Unread count
// @Description  Count the caller's unread notifications
// @Tags         notifications
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Success      200 {object} dto.Response{data=object}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	count, err := h.inbox.UnreadCount(c.Request.Context(), t, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"count": count})
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark read
// @Description  Mark one of the caller's notifications read
// @Tags         notifications
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} dto.Response{data=object}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.inbox.MarkRead(c.Request.Context(), t, actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "is_read": true})
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark all read
// @Description  Mark every notification of the caller read
// @Tags         notifications
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Success      200 {object} dto.Response{data=object}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	updated, err := h.inbox.MarkAllRead(c.Request.Context(), t, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"updated": updated})
}
