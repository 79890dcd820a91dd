package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/dto"
	"GREENPATH_BACK-END/internal/hotspot"
	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/repository"
	"GREENPATH_BACK-END/internal/utils"
)

// ImageOptions controls how uploaded photos are stored
type ImageOptions struct {
	MaxBytes     int64
	SignedURLTTL time.Duration
}

// WastePostHandler serves the community waste feed
type WastePostHandler struct {
	posts  WastePostStore
	images ImageStore
	opts   ImageOptions
	now    func() time.Time
	log    *zap.Logger
}

// NewWastePostHandler creates a WastePostHandler
func NewWastePostHandler(posts WastePostStore, images ImageStore, opts ImageOptions, log *zap.Logger) *WastePostHandler {
	return &WastePostHandler{posts: posts, images: images, opts: opts, now: time.Now, log: log}
}

// ListWastePosts godoc
// @Summary      List waste posts
// @Description  Newest first. mine=true limits the list to the caller's posts.
// @Tags         waste-posts
// @Produce      json
// @Param        type    query  string  false  "filter by waste type"
// @Param        status  query  string  false  "pending|in_progress|collected"
// @Param        mine    query  bool    false  "only my posts (requires token)"
// @Param        limit   query  int     false  "default 20 (max 100)"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {object}  dto.WastePostListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/waste-posts [get]
func (h *WastePostHandler) ListWastePosts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := utils.ParsePagination(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid pagination", err.Error())
		return
	}

	q := r.URL.Query()
	filter := models.WastePostFilter{
		Type:   strings.TrimSpace(q.Get("type")),
		Status: strings.TrimSpace(q.Get("status")),
		Limit:  limit,
		Offset: offset,
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid status", "status must be one of pending, in_progress, collected")
		return
	}
	if strings.EqualFold(q.Get("mine"), "true") {
		user, ok := authUser(w, r)
		if !ok {
			return
		}
		filter.UserID = &user.ID
	}

	h.writeList(w, r, filter)
}

func (h *WastePostHandler) writeList(w http.ResponseWriter, r *http.Request, filter models.WastePostFilter) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	posts, total, err := h.posts.List(ctx, filter)
	if err != nil {
		h.log.Error("failed to list waste posts", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch waste posts", "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.WastePostListResponse{
		Posts: toWastePostResponses(posts, h.now()),
		Pagination: dto.Pagination{
			Total:  total,
			Limit:  filter.Limit,
			Offset: filter.Offset,
		},
	})
}

// GetWastePost godoc
// @Summary      Get a waste post
// @Tags         waste-posts
// @Produce      json
// @Param        id   path      string  true  "Waste post ID"
// @Success      200  {object}  dto.WastePostEnvelope
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/waste-posts/{id} [get]
func (h *WastePostHandler) GetWastePost(w http.ResponseWriter, r *http.Request) {
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
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch waste post", "")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.WastePostEnvelope{Success: true, Post: toWastePostResponse(*p, h.now())})
}

// CreateWastePost godoc
// @Summary      Report waste
// @Description  type, title and location are required. An optional base64 photo is stored privately and linked by a signed URL.
// @Tags         waste-posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      dto.CreateWastePostRequest  true  "Waste post"
// @Success      201      {object}  dto.WastePostEnvelope
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/waste-posts [post]
func (h *WastePostHandler) CreateWastePost(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateWastePostRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	req.Type = strings.TrimSpace(req.Type)
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	if req.Type == "" || req.Title == "" || req.Location == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields: type, title, location", "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*requestTimeout)
	defer cancel()

	post := &models.WastePost{
		ID:          uuid.New(),
		UserID:      user.ID,
		UserEmail:   user.Email,
		UserName:    user.DisplayName(),
		Type:        req.Type,
		Title:       req.Title,
		Location:    req.Location,
		Description: strings.TrimSpace(req.Description),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      models.StatusPending,
		ItemName:    req.ItemName,
		BinType:     req.BinType,
		Recyclable:  req.Recyclable,
		Tips:        req.Tips,
		CreatedAt:   h.now().UTC(),
	}

	if req.ImageData != "" {
		path := post.ID.String() + ".jpg"
		if url, err := h.storeImage(ctx, path, req.ImageData); err != nil {
			h.log.Warn("image upload failed, saving post without image", zap.String("post_id", post.ID.String()), zap.Error(err))
		} else {
			post.ImageURL = &url
			post.ImagePath = &path
		}
	}

	if err := h.posts.Create(ctx, post); err != nil {
		h.log.Error("failed to create waste post", zap.Error(err))
		if post.ImagePath != nil {
			h.removeImage(ctx, *post.ImagePath)
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create waste post", "")
		return
	}

	h.log.Info("waste post created", zap.String("post_id", post.ID.String()), zap.String("user_id", user.ID.String()))
	utils.WriteJSONResponse(w, http.StatusCreated, dto.WastePostEnvelope{Success: true, Post: toWastePostResponse(*post, h.now())})
}

// DeleteWastePost godoc
// @Summary      Delete my waste post
// @Tags         waste-posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Waste post ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/waste-posts/{id} [delete]
func (h *WastePostHandler) DeleteWastePost(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(w, r)
	if !ok {
		return
	}
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
	if p.UserID != user.ID {
		utils.WriteErrorResponse(w, http.StatusForbidden, "Unauthorized - you can only delete your own posts", "")
		return
	}

	if err := h.deletePost(ctx, p); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete waste post", "")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Success: true})
}

// Hotspots godoc
// @Summary      Waste hotspots
// @Description  Posts grouped by the area before the first comma of their location, busiest first
// @Tags         waste-posts
// @Produce      json
// @Success      200  {object}  dto.HotspotListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/waste-posts/hotspots [get]
func (h *WastePostHandler) Hotspots(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	posts, err := h.posts.All(ctx)
	if err != nil {
		h.log.Error("failed to load waste posts for hotspots", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch waste posts", "")
		return
	}

	now := h.now()
	groups := hotspot.Group(posts)
	resp := dto.HotspotListResponse{
		Hotspots:      make([]dto.HotspotResponse, 0, len(groups)),
		TotalHotspots: len(groups),
		TotalPosts:    len(posts),
	}
	for _, g := range groups {
		resp.Hotspots = append(resp.Hotspots, dto.HotspotResponse{
			Area:  g.Area,
			Count: g.Count,
			Items: toWastePostResponses(g.Items, now),
		})
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// deletePost removes the row, then its image
func (h *WastePostHandler) deletePost(ctx context.Context, p *models.WastePost) error {
	return removePost(ctx, h.posts, h.images, h.log, p)
}

// storeImage decodes, uploads and signs one image
func (h *WastePostHandler) storeImage(ctx context.Context, path, imageData string) (string, error) {
	return storeImage(ctx, h.images, h.opts, path, imageData)
}

func (h *WastePostHandler) removeImage(ctx context.Context, path string) {
	removeImage(ctx, h.images, h.log, path)
}

// removePost deletes the row, then its image. Image failures are logged only.
func removePost(ctx context.Context, posts WastePostStore, images ImageStore, log *zap.Logger, p *models.WastePost) error {
	if err := posts.Delete(ctx, p.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to delete waste post", zap.String("post_id", p.ID.String()), zap.Error(err))
		return err
	}
	if p.ImagePath != nil && *p.ImagePath != "" {
		removeImage(ctx, images, log, *p.ImagePath)
	} else if p.ImageURL != nil {
		removeImage(ctx, images, log, p.ID.String()+".jpg")
	}
	log.Info("waste post deleted", zap.String("post_id", p.ID.String()))
	return nil
}

func removeImage(ctx context.Context, images ImageStore, log *zap.Logger, path string) {
	if err := images.Remove(ctx, path); err != nil {
		log.Warn("failed to remove image", zap.String("path", path), zap.Error(err))
	}
}

func storeImage(ctx context.Context, images ImageStore, opts ImageOptions, path, imageData string) (string, error) {
	data, mimeType, err := utils.DecodeImageData(imageData, opts.MaxBytes)
	if err != nil {
		return "", err
	}
	if err := images.Upload(ctx, path, data, mimeType); err != nil {
		return "", err
	}
	return images.SignedURL(ctx, path, opts.SignedURLTTL)
}
