package supabase

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageClient_EnsureBucket(t *testing.T) {
	t.Run("creates missing bucket", func(t *testing.T) {
		c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
			if r.Method == http.MethodGet {
				writeJSON(w, http.StatusOK, []map[string]any{{"id": "other", "name": "other"}})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"name": "waste-images"})
		})

		err := NewStorageClient(c, "waste-images", 5<<20).EnsureBucket(context.Background())
		require.NoError(t, err)
		require.Len(t, *seen, 2)
		create := (*seen)[1]
		assert.Equal(t, http.MethodPost, create.Method)
		assert.Equal(t, "/storage/v1/bucket", create.Path)
		assert.Equal(t, false, create.Decoded["public"])
		assert.Equal(t, "5242880", create.Decoded["file_size_limit"])
	})

	t.Run("keeps existing bucket", func(t *testing.T) {
		c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "waste-images", "name": "waste-images"}})
		})

		require.NoError(t, NewStorageClient(c, "waste-images", 0).EnsureBucket(context.Background()))
		assert.Len(t, *seen, 1)
	})
}

func TestStorageClient_UploadSignRemove(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		switch {
		case r.Method == http.MethodPost && rec.Path == "/storage/v1/object/sign/waste-images/p1.jpg":
			writeJSON(w, http.StatusOK, map[string]any{"signedURL": "/object/sign/waste-images/p1.jpg?token=t"})
		case r.Method == http.MethodDelete:
			writeJSON(w, http.StatusOK, []map[string]any{{"name": "p1.jpg"}})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"Key": "waste-images/p1.jpg"})
		}
	})
	s := NewStorageClient(c, "waste-images", 0)
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "p1.jpg", []byte{0xff, 0xd8}, "image/jpeg"))
	url, err := s.SignedURL(ctx, "p1.jpg", 24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, "p1.jpg"))

	require.Len(t, *seen, 3)
	upload := (*seen)[0]
	assert.Equal(t, "/storage/v1/object/waste-images/p1.jpg", upload.Path)
	assert.Equal(t, "true", upload.Upsert)
	assert.Equal(t, "image/jpeg", upload.CType)
	assert.Equal(t, []byte{0xff, 0xd8}, upload.Body)

	assert.Equal(t, float64(86400), (*seen)[1].Decoded["expiresIn"])
	assert.True(t, strings.HasSuffix(url, "/storage/v1/object/sign/waste-images/p1.jpg?token=t"), url)
	assert.True(t, strings.HasPrefix(url, "http://"), url)

	remove := (*seen)[2]
	assert.Equal(t, http.MethodDelete, remove.Method)
	assert.Equal(t, "/storage/v1/object/waste-images", remove.Path)
	assert.Equal(t, []any{"p1.jpg"}, remove.Decoded["prefixes"])
}

func TestStorageClient_RemoveNothing(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {})
	require.NoError(t, NewStorageClient(c, "b", 0).Remove(context.Background()))
	assert.Empty(t, *seen)
}

func TestStorageClient_Errors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"statusCode": "404", "error": "not_found", "message": "Bucket not found"})
	})
	s := NewStorageClient(c, "missing", 0)

	err := s.Upload(context.Background(), "p1.jpg", []byte("x"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bucket not found")

	_, err = s.SignedURL(context.Background(), "p1.jpg", time.Hour)
	assert.Error(t, err)
}

func TestStorageClient_CancelledContext(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewStorageClient(c, "b", 0).Upload(ctx, "p1.jpg", []byte("x"), "image/png")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *seen)
}
