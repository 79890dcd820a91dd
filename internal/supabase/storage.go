package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

// StorageClient wraps the object storage endpoints for a single bucket
type StorageClient struct {
	c         *Client
	bucket    string
	sizeLimit int64
}

// NewStorageClient creates a StorageClient bound to bucket
func NewStorageClient(c *Client, bucket string, sizeLimit int64) *StorageClient {
	return &StorageClient{c: c, bucket: bucket, sizeLimit: sizeLimit}
}

// Bucket returns the bucket name
func (s *StorageClient) Bucket() string { return s.bucket }

func (s *StorageClient) endpoint() string {
	return s.c.baseURL + "/storage/v1"
}

// api returns a fresh storage-go client. Upload options are stored as headers on the
// client's transport, so one client must never serve two requests concurrently.
func (s *StorageClient) api() *storage_go.Client {
	return storage_go.NewClient(s.endpoint(), s.c.serviceKey, map[string]string{"apikey": s.c.serviceKey})
}

// EnsureBucket creates the private image bucket if it does not exist yet
func (s *StorageClient) EnsureBucket(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	api := s.api()
	buckets, err := api.ListBuckets()
	if err != nil {
		return fmt.Errorf("list buckets: %w", err)
	}
	for _, b := range buckets {
		if b.Name == s.bucket || b.Id == s.bucket {
			s.c.log.Info("storage bucket already exists", zap.String("bucket", s.bucket))
			return nil
		}
	}

	opts := storage_go.BucketOptions{Public: false}
	if s.sizeLimit > 0 {
		opts.FileSizeLimit = strconv.FormatInt(s.sizeLimit, 10)
	}
	if _, err := api.CreateBucket(s.bucket, opts); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.c.log.Info("storage bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Upload stores data at path, replacing any existing object
func (s *StorageClient) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upsert := true
	_, err := s.api().UploadFile(s.bucket, strings.TrimLeft(path, "/"), bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	return nil
}

// SignedURL returns an absolute URL granting read access to path for ttl
func (s *StorageClient) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := s.api().CreateSignedUrl(s.bucket, strings.TrimLeft(path, "/"), int(ttl.Seconds()))
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", path, err)
	}
	// storage-go prefixes the endpoint even when the server already answered with an absolute URL
	signed := strings.TrimPrefix(resp.SignedURL, s.endpoint())
	switch {
	case signed == "":
		return "", errors.New("supabase: empty signed url")
	case strings.HasPrefix(signed, "http://"), strings.HasPrefix(signed, "https://"):
		return signed, nil
	}
	return resp.SignedURL, nil
}

// Remove deletes the given objects
func (s *StorageClient) Remove(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.api().RemoveFile(s.bucket, paths); err != nil {
		return fmt.Errorf("remove %v: %w", paths, err)
	}
	return nil
}
