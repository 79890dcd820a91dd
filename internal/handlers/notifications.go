package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/dto"
	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/repository"
	"GREENPATH_BACK-END/internal/utils"
)

// NotificationsHandler: HTTP endpoints (list/mark read/mark all read)
type NotificationsHandler struct {
	store NotificationStore
	log   *zap.Logger
}

func NewNotificationsHandler(store NotificationStore, log *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{store: store, log: log}
}

// -----------------------------------------------------------------------------
// GET /api/notifications
// @Summary List notifications
// @Description List user notifications with filters and pagination.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread_only query bool false "true|false (default false)"
// @Param limit query int false "default 20 (max 100)"
// @Param offset query int false "default 0"
// @Success 200 {object} dto.NotificationListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notifications [get]
func (h *NotificationsHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(w, r)
	if !ok {
		return
	}

	limit, offset, err := utils.ParsePagination(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid pagination", err.Error())
		return
	}
	filter := models.NotificationFilter{
		UnreadOnly: strings.EqualFold(r.URL.Query().Get("unread_only"), "true"),
		Limit:      limit,
		Offset:     offset,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, total, unread, err := h.store.List(ctx, user.ID, filter)
	if err != nil {
		h.log.Error("failed to list notifications", zap.String("user_id", user.ID.String()), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Failed to fetch notifications")
		return
	}

	out := make([]dto.NotificationItem, 0, len(items))
	for _, n := range items {
		out = append(out, dto.NotificationItem{
			ID:        n.ID.String(),
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Data:      n.Data,
			Read:      n.Read,
			CreatedAt: utils.FormatTimestamp(n.CreatedAt),
		})
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NotificationListResponse{
		Notifications: out,
		Pagination: dto.NotificationListPagination{
			Total:       total,
			UnreadCount: unread,
			Limit:       limit,
			Offset:      offset,
		},
	})
}

// -----------------------------------------------------------------------------
// POST /api/notifications/{id}/read  (mark one as read)
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notifications/{id}/read [post]
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "notification")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.store.MarkRead(ctx, user.ID, id)
	switch {
	case errors.Is(err, repository.ErrNotOwner):
		utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", "Notification belongs to another user")
		return
	case errors.Is(err, repository.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Notification not found")
		return
	case err != nil:
		h.log.Error("failed to mark notification read", zap.String("notification_id", id.String()), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Failed to update notification")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Notification marked as read"})
}

// -----------------------------------------------------------------------------
// POST /api/notifications/read-all
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notifications/read-all [post]
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.store.MarkAllRead(ctx, user.ID)
	if err != nil {
		h.log.Error("failed to mark all notifications read", zap.String("user_id", user.ID.String()), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Failed to update notifications")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":       "All notifications marked as read",
		"updated_count": updated,
	})
}
