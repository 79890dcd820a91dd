package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GREENPATH_BACK-END/internal/dto"
	"GREENPATH_BACK-END/internal/models"
)

func newTestWastePostHandler(posts *fakePosts, images *fakeImages) *WastePostHandler {
	h := NewWastePostHandler(posts, images, ImageOptions{MaxBytes: 1 << 20, SignedURLTTL: time.Hour}, testLogger())
	h.now = func() time.Time { return fixedNow }
	return h
}

func TestListWastePosts(t *testing.T) {
	older := samplePost(alice, "Andheri, Mumbai", "plastic", models.StatusPending, 3*time.Hour)
	newer := samplePost(bob, "Bandra, Mumbai", "organic", models.StatusCollected, 30*time.Minute)
	newer.UserName = ""

	tests := []struct {
		name      string
		target    string
		user      *models.AuthUser
		wantCode  int
		wantIDs   []uuid.UUID
		wantError string
	}{
		{name: "newest first", target: "/api/waste-posts", wantCode: http.StatusOK, wantIDs: []uuid.UUID{newer.ID, older.ID}},
		{name: "type filter", target: "/api/waste-posts?type=plastic", wantCode: http.StatusOK, wantIDs: []uuid.UUID{older.ID}},
		{name: "status filter", target: "/api/waste-posts?status=collected", wantCode: http.StatusOK, wantIDs: []uuid.UUID{newer.ID}},
		{name: "mine", target: "/api/waste-posts?mine=true", user: &alice, wantCode: http.StatusOK, wantIDs: []uuid.UUID{older.ID}},
		{name: "mine without token", target: "/api/waste-posts?mine=true", wantCode: http.StatusUnauthorized, wantError: "Unauthorized"},
		{name: "bad status", target: "/api/waste-posts?status=lost", wantCode: http.StatusBadRequest, wantError: "Invalid status"},
		{name: "bad limit", target: "/api/waste-posts?limit=-1", wantCode: http.StatusBadRequest, wantError: "Invalid pagination"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestWastePostHandler(newFakePosts(older, newer), newFakeImages())
			rec := httptest.NewRecorder()

			h.ListWastePosts(rec, newRequest(t, http.MethodGet, tt.target, nil, tt.user, ""))

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[dto.ErrorResponse](t, rec).Error)
				return
			}
			resp := decodeBody[dto.WastePostListResponse](t, rec)
			got := make([]uuid.UUID, 0, len(resp.Posts))
			for _, p := range resp.Posts {
				got = append(got, uuid.MustParse(p.ID))
			}
			assert.Equal(t, tt.wantIDs, got)
			assert.Equal(t, len(tt.wantIDs), resp.Pagination.Total)
			assert.Equal(t, 20, resp.Pagination.Limit)
		})
	}
}

func TestListWastePosts_ResponseShape(t *testing.T) {
	p := samplePost(bob, "Bandra, Mumbai", "organic", models.StatusPending, 26*time.Hour)
	p.UserName = ""
	h := newTestWastePostHandler(newFakePosts(p), newFakeImages())
	rec := httptest.NewRecorder()

	h.ListWastePosts(rec, newRequest(t, http.MethodGet, "/api/waste-posts", nil, nil, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[dto.WastePostListResponse](t, rec)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "Anonymous", resp.Posts[0].UserName)
	assert.Equal(t, "1 day ago", resp.Posts[0].TimeAgo)
	assert.Equal(t, "pending", resp.Posts[0].Status)
}

func TestListWastePosts_StoreError(t *testing.T) {
	posts := newFakePosts()
	posts.err = errDB
	h := newTestWastePostHandler(posts, newFakeImages())
	rec := httptest.NewRecorder()

	h.ListWastePosts(rec, newRequest(t, http.MethodGet, "/api/waste-posts", nil, nil, ""))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGetWastePost(t *testing.T) {
	p := samplePost(alice, "Andheri", "plastic", models.StatusPending, time.Hour)
	h := newTestWastePostHandler(newFakePosts(p), newFakeImages())

	rec := httptest.NewRecorder()
	h.GetWastePost(rec, newRequest(t, http.MethodGet, "/", nil, nil, p.ID.String()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p.ID.String(), decodeBody[dto.WastePostEnvelope](t, rec).Post.ID)

	rec = httptest.NewRecorder()
	h.GetWastePost(rec, newRequest(t, http.MethodGet, "/", nil, nil, uuid.NewString()))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.GetWastePost(rec, newRequest(t, http.MethodGet, "/", nil, nil, "42"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWastePost(t *testing.T) {
	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	tests := []struct {
		name      string
		body      any
		user      *models.AuthUser
		uploadErr error
		wantCode  int
		wantError string
		wantImage bool
	}{
		{
			name:     "without image",
			body:     dto.CreateWastePostRequest{Type: "plastic", Title: "Bottles", Location: "Andheri, Mumbai"},
			user:     &alice,
			wantCode: http.StatusCreated,
		},
		{
			name:      "with image",
			body:      dto.CreateWastePostRequest{Type: "plastic", Title: "Bottles", Location: "Andheri", ImageData: image},
			user:      &alice,
			wantCode:  http.StatusCreated,
			wantImage: true,
		},
		{
			name:      "image upload failure still saves",
			body:      dto.CreateWastePostRequest{Type: "plastic", Title: "Bottles", Location: "Andheri", ImageData: image},
			user:      &alice,
			uploadErr: errors.New("bucket missing"),
			wantCode:  http.StatusCreated,
		},
		{
			name:      "missing location",
			body:      dto.CreateWastePostRequest{Type: "plastic", Title: "Bottles", Location: "  "},
			user:      &alice,
			wantCode:  http.StatusBadRequest,
			wantError: "Missing required fields: type, title, location",
		},
		{
			name:      "bad latitude",
			body:      `{"type":"plastic","title":"Bottles","location":"Andheri","latitude":123.4}`,
			user:      &alice,
			wantCode:  http.StatusBadRequest,
			wantError: "Validation error",
		},
		{
			name:      "malformed json",
			body:      `{"type":`,
			user:      &alice,
			wantCode:  http.StatusBadRequest,
			wantError: "Invalid request body",
		},
		{
			name:      "anonymous",
			body:      dto.CreateWastePostRequest{Type: "plastic", Title: "Bottles", Location: "Andheri"},
			wantCode:  http.StatusUnauthorized,
			wantError: "Unauthorized",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := newFakePosts()
			images := newFakeImages()
			images.uploadErr = tt.uploadErr
			h := newTestWastePostHandler(posts, images)
			rec := httptest.NewRecorder()

			h.CreateWastePost(rec, newRequest(t, http.MethodPost, "/api/waste-posts", tt.body, tt.user, ""))

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[dto.ErrorResponse](t, rec).Error)
				assert.Empty(t, posts.posts)
				return
			}

			resp := decodeBody[dto.WastePostEnvelope](t, rec)
			assert.True(t, resp.Success)
			assert.Equal(t, "pending", resp.Post.Status)
			assert.Equal(t, alice.ID.String(), resp.Post.UserID)
			assert.Equal(t, "Alice", resp.Post.UserName)
			assert.Equal(t, "Just now", resp.Post.TimeAgo)
			require.Len(t, posts.posts, 1)

			if tt.wantImage {
				require.NotNil(t, resp.Post.ImageURL)
				path := resp.Post.ID + ".jpg"
				assert.Contains(t, *resp.Post.ImageURL, path)
				assert.Equal(t, "image/png", images.uploaded[path])
			} else {
				assert.Nil(t, resp.Post.ImageURL)
			}
		})
	}
}

func TestCreateWastePost_StoreFailureRemovesImage(t *testing.T) {
	posts := newFakePosts()
	posts.err = errDB
	images := newFakeImages()
	h := newTestWastePostHandler(posts, images)
	rec := httptest.NewRecorder()

	body := dto.CreateWastePostRequest{
		Type: "plastic", Title: "Bottles", Location: "Andheri",
		ImageData: base64.StdEncoding.EncodeToString([]byte("jpeg")),
	}
	h.CreateWastePost(rec, newRequest(t, http.MethodPost, "/api/waste-posts", body, &alice, ""))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, images.removed, 1)
	assert.Contains(t, images.uploaded, images.removed[0])
}

func TestDeleteWastePost(t *testing.T) {
	withImage := samplePost(alice, "Andheri", "plastic", models.StatusPending, time.Hour)
	path := withImage.ID.String() + ".jpg"
	withImage.ImagePath = &path
	plain := samplePost(alice, "Bandra", "organic", models.StatusPending, time.Hour)

	tests := []struct {
		name        string
		id          string
		user        *models.AuthUser
		wantCode    int
		wantError   string
		wantRemoved []string
	}{
		{name: "owner with image", id: withImage.ID.String(), user: &alice, wantCode: http.StatusOK, wantRemoved: []string{path}},
		{name: "owner without image", id: plain.ID.String(), user: &alice, wantCode: http.StatusOK},
		{name: "not owner", id: withImage.ID.String(), user: &bob, wantCode: http.StatusForbidden, wantError: "Unauthorized - you can only delete your own posts"},
		{name: "missing", id: uuid.NewString(), user: &alice, wantCode: http.StatusNotFound, wantError: "Post not found"},
		{name: "anonymous", id: plain.ID.String(), wantCode: http.StatusUnauthorized, wantError: "Unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := newFakePosts(withImage, plain)
			images := newFakeImages()
			h := newTestWastePostHandler(posts, images)
			rec := httptest.NewRecorder()

			h.DeleteWastePost(rec, newRequest(t, http.MethodDelete, "/", nil, tt.user, tt.id))

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[dto.ErrorResponse](t, rec).Error)
				assert.Len(t, posts.posts, 2)
				return
			}
			assert.True(t, decodeBody[dto.MessageResponse](t, rec).Success)
			assert.NotContains(t, posts.posts, uuid.MustParse(tt.id))
			assert.Equal(t, tt.wantRemoved, images.removed)
		})
	}
}

func TestHotspots(t *testing.T) {
	posts := newFakePosts(
		samplePost(alice, "Andheri, Mumbai", "plastic", models.StatusPending, time.Hour),
		samplePost(bob, "Andheri West", "organic", models.StatusPending, 2*time.Hour),
		samplePost(bob, "Andheri, Mumbai", "metal", models.StatusCollected, 3*time.Hour),
		samplePost(alice, "", "glass", models.StatusPending, 4*time.Hour),
	)
	h := newTestWastePostHandler(posts, newFakeImages())
	rec := httptest.NewRecorder()

	h.Hotspots(rec, newRequest(t, http.MethodGet, "/api/waste-posts/hotspots", nil, nil, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[dto.HotspotListResponse](t, rec)
	assert.Equal(t, 4, resp.TotalPosts)
	assert.Equal(t, 3, resp.TotalHotspots)
	require.Len(t, resp.Hotspots, 3)
	assert.Equal(t, "Andheri", resp.Hotspots[0].Area)
	assert.Equal(t, 2, resp.Hotspots[0].Count)
	assert.Len(t, resp.Hotspots[0].Items, 2)
}

func TestHotspots_Empty(t *testing.T) {
	h := newTestWastePostHandler(newFakePosts(), newFakeImages())
	rec := httptest.NewRecorder()

	h.Hotspots(rec, newRequest(t, http.MethodGet, "/api/waste-posts/hotspots", nil, nil, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hotspots":[],"total_hotspots":0,"total_posts":0}`, rec.Body.String())
}
