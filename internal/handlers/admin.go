package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/dto"
	"GREENPATH_BACK-END/internal/email"
	"GREENPATH_BACK-END/internal/hotspot"
	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/repository"
	"GREENPATH_BACK-END/internal/utils"
)

// Admin actions accepted by POST /api/admin/actions
const (
	ActionMarkCollected = "mark_collected"
)

// AdminHandler serves the moderation and analytics surface. Routes are wrapped in RequireAdmin.
type AdminHandler struct {
	posts         WastePostStore
	notifications NotificationStore
	images        ImageStore
	mailer        email.Mailer
	now           func() time.Time
	log           *zap.Logger
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(posts WastePostStore, notifications NotificationStore, images ImageStore, mailer email.Mailer, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		posts:         posts,
		notifications: notifications,
		images:        images,
		mailer:        mailer,
		now:           time.Now,
		log:           log,
	}
}

// Stats godoc
// @Summary      Dashboard statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AdminStatsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stats, err := h.posts.Stats(ctx)
	if err != nil {
		h.log.Error("failed to compute waste stats", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to load statistics", "")
		return
	}
	posts, err := h.posts.All(ctx)
	if err != nil {
		h.log.Error("failed to load waste posts for hotspots", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to load statistics", "")
		return
	}

	groups := hotspot.Group(posts)
	summaries := make([]dto.HotspotSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, dto.HotspotSummary{Area: g.Area, Count: g.Count})
	}

	byType := stats.ByType
	if byType == nil {
		byType = map[string]int{}
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.AdminStatsResponse{
		TotalRequests: stats.Total,
		Pending:       stats.Pending,
		InProgress:    stats.InProgress,
		Resolved:      stats.Collected,
		ByType:        byType,
		Hotspots:      summaries,
	})
}

// ListWastePosts godoc
// @Summary      List all waste posts for moderation
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "pending|in_progress|collected"
// @Param        type    query  string  false  "filter by waste type"
// @Param        limit   query  int     false  "default 20 (max 100)"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {object}  dto.WastePostListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/waste-posts [get]
func (h *AdminHandler) ListWastePosts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := utils.ParsePagination(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid pagination", err.Error())
		return
	}
	q := r.URL.Query()
	filter := models.WastePostFilter{
		Status: strings.TrimSpace(q.Get("status")),
		Type:   strings.TrimSpace(q.Get("type")),
		Limit:  limit,
		Offset: offset,
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid status", "status must be one of pending, in_progress, collected")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	posts, total, err := h.posts.List(ctx, filter)
	if err != nil {
		h.log.Error("failed to list waste posts", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch waste posts", "")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.WastePostListResponse{
		Posts:      toWastePostResponses(posts, h.now()),
		Pagination: dto.Pagination{Total: total, Limit: limit, Offset: offset},
	})
}

// UpdateStatus godoc
// @Summary      Change a waste post's status
// @Description  Notifies the owner in-app and by email
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Waste post ID"
// @Param        payload  body      dto.UpdateStatusRequest  true  "New status"
// @Success      200      {object}  dto.WastePostEnvelope
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/admin/waste-posts/{id}/status [patch]
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "waste post")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	p, ok := h.setStatus(w, r, id, req.Status)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.WastePostEnvelope{Success: true, Post: toWastePostResponse(*p, h.now())})
}

// DeleteWastePost godoc
// @Summary      Remove any waste post
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Waste post ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/waste-posts/{id} [delete]
func (h *AdminHandler) DeleteWastePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "waste post")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.posts.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Post not found", "")
		return
	}
	if err != nil {
		h.log.Error("failed to get waste post", zap.String("post_id", id.String()), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete waste post", "")
		return
	}
	if err := removePost(ctx, h.posts, h.images, h.log, p); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete waste post", "")
		return
	}

	h.notify(ctx, &models.Notification{
		UserID: p.UserID,
		Type:   models.NotificationPostRemoved,
		Title:  "Your waste report was removed",
		Data:   map[string]any{"post_id": p.ID.String(), "title": p.Title},
	})
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Success: true})
}

// Action godoc
// @Summary      Run an admin action
// @Description  Supported action: mark_collected
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      dto.AdminActionRequest  true  "Action"
// @Success      200      {object}  dto.AdminActionResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/admin/actions [post]
func (h *AdminHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminActionRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}
	id, err := uuid.Parse(req.WasteID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid wasteId", "wasteId must be a valid UUID")
		return
	}

	switch req.Action {
	case ActionMarkCollected:
		p, ok := h.setStatus(w, r, id, models.StatusCollected)
		if !ok {
			return
		}
		utils.WriteJSONResponse(w, http.StatusOK, dto.AdminActionResponse{
			Success: true,
			Data:    []dto.WastePostResponse{toWastePostResponse(*p, h.now())},
		})
	default:
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid action", fmt.Sprintf("unsupported action %q", req.Action))
	}
}

// setStatus updates the post and notifies its owner, writing the error response on failure
func (h *AdminHandler) setStatus(w http.ResponseWriter, r *http.Request, id uuid.UUID, status string) (*models.WastePost, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.posts.UpdateStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Post not found", "")
		return nil, false
	}
	if err != nil {
		h.log.Error("failed to update waste post status", zap.String("post_id", id.String()), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update status", "")
		return nil, false
	}
	h.log.Info("waste post status changed", zap.String("post_id", id.String()), zap.String("status", status))

	msg := fmt.Sprintf("%q is now %s", p.Title, strings.ToLower(email.StatusLabel(status)))
	h.notify(ctx, &models.Notification{
		UserID:  p.UserID,
		Type:    models.NotificationStatusChanged,
		Title:   "Waste report updated",
		Message: &msg,
		Data:    map[string]any{"post_id": p.ID.String(), "status": status},
	})
	if p.UserEmail != "" {
		if err := h.mailer.Send(ctx, email.StatusChanged(p.UserEmail, p.UserName, p.Title, status)); err != nil {
			h.log.Warn("failed to email status change", zap.String("post_id", id.String()), zap.Error(err))
		}
	}
	return p, true
}

func (h *AdminHandler) notify(ctx context.Context, n *models.Notification) {
	if err := h.notifications.Create(ctx, n); err != nil {
		h.log.Warn("failed to create notification", zap.String("user_id", n.UserID.String()), zap.String("type", n.Type), zap.Error(err))
	}
}
