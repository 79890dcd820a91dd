// Package supabase talks to the hosted platform's auth (GoTrue) and storage REST APIs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/config"
)

// APIError is a non-2xx answer from the platform
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// Client holds the project URL, keys and HTTP transport shared by the auth and storage APIs
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
	log        *zap.Logger
}

// NewClient creates a platform client from configuration
func NewClient(cfg config.SupabaseConfig, log *zap.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	anon := cfg.AnonKey
	if anon == "" {
		anon = cfg.ServiceRoleKey
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    anon,
		serviceKey: cfg.ServiceRoleKey,
		http:       &http.Client{Timeout: timeout},
		log:        log,
	}
}

// request describes one REST call
type request struct {
	method      string
	path        string
	apiKey      string
	bearer      string
	body        any
	rawBody     io.Reader
	contentType string
	headers     map[string]string
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	contentType := req.contentType
	switch {
	case req.rawBody != nil:
		body = req.rawBody
	case req.body != nil:
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("apikey", req.apiKey)
	bearer := req.bearer
	if bearer == "" {
		bearer = req.apiKey
	}
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", req.method, req.path, err)
	}
	c.log.Debug("supabase request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

// parseAPIError understands both GoTrue ({code,msg,error_code} or {error,error_description})
// and storage ({statusCode,error,message}) error bodies.
func parseAPIError(status int, payload []byte) *APIError {
	var body struct {
		Code             any    `json:"code"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(payload, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(payload))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	apiErr.Code = body.ErrorCode
	if apiErr.Code == "" {
		if s, ok := body.Code.(string); ok {
			apiErr.Code = s
		}
	}
	for _, m := range []string{body.Msg, body.ErrorDescription, body.Message, body.Error} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	if apiErr.Code == "" && body.Error != "" && body.Error != apiErr.Message {
		apiErr.Code = body.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
