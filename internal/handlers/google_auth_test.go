package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"GREENPATH_BACK-END/internal/config"
	"GREENPATH_BACK-END/internal/dto"
)

func newTestGoogleHandler(t *testing.T, auth *fakeAuth, profiles *fakeProfiles, tokenResponse string) *GoogleAuthHandler {
	t.Helper()
	h := NewGoogleAuthHandler(config.GoogleOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/api/auth/google/callback",
	}, "https://app.test", auth, profiles, testLogger())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tokenResponse))
	}))
	t.Cleanup(srv.Close)
	h.oauth2Config.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	return h
}

func TestGoogleLogin(t *testing.T) {
	h := newTestGoogleHandler(t, &fakeAuth{}, newFakeProfiles(), `{}`)
	rec := httptest.NewRecorder()

	h.GoogleLogin(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[dto.GoogleLoginResponse](t, rec)
	assert.NotEmpty(t, resp.State)
	assert.Contains(t, resp.AuthURL, "state="+resp.State)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, oauthStateCookie, cookies[0].Name)
	assert.Equal(t, resp.State, cookies[0].Value)
}

func TestGoogleLogin_NotConfigured(t *testing.T) {
	h := NewGoogleAuthHandler(config.GoogleOAuthConfig{}, "https://app.test", &fakeAuth{}, newFakeProfiles(), testLogger())
	rec := httptest.NewRecorder()

	h.GoogleLogin(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

const googleTokens = `{"access_token":"g-access","token_type":"Bearer","expires_in":3600,"id_token":"g-id-token"}`

func TestGoogleCallback(t *testing.T) {
	auth := &fakeAuth{session: testSession(alice, "")}
	profiles := newFakeProfiles()
	h := newTestGoogleHandler(t, auth, profiles, googleTokens)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "s1"})
	rec := httptest.NewRecorder()

	h.GoogleCallback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "google", auth.provider)
	assert.Equal(t, "g-id-token", auth.idToken)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", loc.Path)
	assert.Empty(t, loc.RawQuery, "tokens stay out of the query string")
	frag, err := url.ParseQuery(loc.Fragment)
	require.NoError(t, err)
	assert.Equal(t, "access-"+aliceID.String(), frag.Get("access_token"))
	assert.Equal(t, "refresh-"+aliceID.String(), frag.Get("refresh_token"))
	assert.Equal(t, "google", frag.Get("provider"))

	require.Contains(t, profiles.profiles, aliceID)
	assert.Equal(t, "Alice", profiles.profiles[aliceID].Name)
}

func TestGoogleCallback_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		cookie   string
		token    string
		wantCode int
	}{
		{name: "missing code", target: "/cb", wantCode: http.StatusBadRequest},
		{name: "state mismatch", target: "/cb?code=abc&state=other", cookie: "s1", wantCode: http.StatusBadRequest},
		{name: "no state cookie", target: "/cb?code=attacker&state=anything", token: googleTokens, wantCode: http.StatusBadRequest},
		{name: "no state in query", target: "/cb?code=abc", cookie: "s1", token: googleTokens, wantCode: http.StatusBadRequest},
		{name: "no id token", target: "/cb?code=abc&state=s1", cookie: "s1", token: `{"access_token":"g-access","token_type":"Bearer"}`, wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{session: testSession(alice, "")}
			token := tt.token
			if token == "" {
				token = `{}`
			}
			h := newTestGoogleHandler(t, auth, newFakeProfiles(), token)
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			h.GoogleCallback(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Empty(t, auth.idToken)
			assert.Empty(t, rec.Header().Get("Location"))
		})
	}
}

func TestGoogleRedirect_DefaultsFrontendURL(t *testing.T) {
	h := NewGoogleAuthHandler(config.GoogleOAuthConfig{}, "", &fakeAuth{}, newFakeProfiles(), testLogger())

	loc, err := url.Parse(h.redirectURL("a", "r", 60))
	require.NoError(t, err)
	assert.True(t, loc.IsAbs(), loc.String())
	assert.Equal(t, config.DefaultFrontendURL+"/auth/callback", loc.Scheme+"://"+loc.Host+loc.Path)
}
