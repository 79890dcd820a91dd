package supabase

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/config"
)

type recordedRequest struct {
	Method  string
	Path    string
	Query   string
	APIKey  string
	Bearer  string
	Upsert  string
	CType   string
	Body    []byte
	Decoded map[string]any
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, rec recordedRequest)) (*Client, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.RawQuery,
			APIKey: r.Header.Get("apikey"),
			Bearer: r.Header.Get("Authorization"),
			Upsert: r.Header.Get("x-upsert"),
			CType:  r.Header.Get("Content-Type"),
			Body:   body,
		}
		_ = json.Unmarshal(body, &rec.Decoded)
		seen = append(seen, rec)
		handler(w, r, rec)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(config.SupabaseConfig{
		URL:            srv.URL + "/",
		AnonKey:        "anon-key",
		ServiceRoleKey: "service-key",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
	return c, &seen
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{name: "gotrue msg", status: 422, body: `{"code":422,"error_code":"email_exists","msg":"A user with this email address has already been registered"}`, wantCode: "email_exists", wantMsg: "A user with this email address has already been registered"},
		{name: "oauth style", status: 400, body: `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, wantCode: "invalid_grant", wantMsg: "Invalid login credentials"},
		{name: "storage", status: 400, body: `{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`, wantCode: "Duplicate", wantMsg: "The resource already exists"},
		{name: "plain text", status: 502, body: "bad gateway", wantMsg: "bad gateway"},
		{name: "empty", status: 503, body: "", wantMsg: "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseAPIError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.status, err.Status)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.wantMsg, err.Message)
		})
	}
}

func TestNewClient_FallsBackToServiceKey(t *testing.T) {
	c := NewClient(config.SupabaseConfig{URL: "https://x.supabase.co", ServiceRoleKey: "svc"}, zap.NewNop())
	assert.Equal(t, "svc", c.anonKey)
	assert.Equal(t, "https://x.supabase.co", c.baseURL)
}
