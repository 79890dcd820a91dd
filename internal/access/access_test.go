package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/repository"
)

type fakeRoles struct {
	role  string
	err   error
	calls int
}

func (f *fakeRoles) GetRole(ctx context.Context, userID uuid.UUID) (string, error) {
	f.calls++
	return f.role, f.err
}

func TestResolver_IsAdmin(t *testing.T) {
	tests := []struct {
		name      string
		metaRole  string
		appRole   string
		roles     *fakeRoles
		want      bool
		wantErr   bool
		wantCalls int
	}{
		{name: "app metadata admin skips lookup", appRole: "admin", roles: &fakeRoles{role: "user"}, want: true},
		{name: "user metadata admin is not trusted", metaRole: "admin", roles: &fakeRoles{role: "user"}, wantCalls: 1},
		{name: "user metadata admin without profile", metaRole: "admin", roles: &fakeRoles{err: repository.ErrNotFound}, wantCalls: 1},
		{name: "profile admin", roles: &fakeRoles{role: "admin"}, want: true, wantCalls: 1},
		{name: "profile user", roles: &fakeRoles{role: "user"}, wantCalls: 1},
		{name: "metadata user falls back to profile", metaRole: "user", roles: &fakeRoles{role: "admin"}, want: true, wantCalls: 1},
		{name: "missing profile", roles: &fakeRoles{err: repository.ErrNotFound}, wantCalls: 1},
		{name: "lookup failure", roles: &fakeRoles{err: errors.New("connection reset")}, wantErr: true, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.roles)
			got, err := r.IsAdmin(context.Background(), models.AuthUser{ID: uuid.New(), MetadataRole: tt.metaRole, AppRole: tt.appRole})
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantCalls, tt.roles.calls)
		})
	}
}

func TestScreenFor(t *testing.T) {
	assert.Equal(t, ScreenLanding, ScreenFor(false, true))
	assert.Equal(t, ScreenDashboard, ScreenFor(true, false))
	assert.Equal(t, ScreenAdminDashboard, ScreenFor(true, true))
}

func TestNext(t *testing.T) {
	tests := []struct {
		from    Screen
		event   Event
		isAdmin bool
		want    Screen
	}{
		{ScreenLanding, EventGetStarted, false, ScreenAuth},
		{ScreenAuth, EventBack, false, ScreenLanding},
		{ScreenAuth, EventAuthenticated, false, ScreenDashboard},
		{ScreenAuth, EventAuthenticated, true, ScreenAdminDashboard},
		{ScreenLanding, EventAuthenticated, true, ScreenAdminDashboard},
		{ScreenDashboard, EventSignedOut, false, ScreenLanding},
		{ScreenAdminDashboard, EventSignedOut, true, ScreenLanding},
		{ScreenDashboard, EventGetStarted, false, ScreenDashboard},
		{ScreenLanding, EventBack, false, ScreenLanding},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.from, tt.event, tt.isAdmin))
		})
	}
}

func TestParse(t *testing.T) {
	s, ok := ParseScreen("admin_dashboard")
	assert.True(t, ok)
	assert.Equal(t, ScreenAdminDashboard, s)
	_, ok = ParseScreen("settings")
	assert.False(t, ok)

	e, ok := ParseEvent("get_started")
	assert.True(t, ok)
	assert.Equal(t, EventGetStarted, e)
	_, ok = ParseEvent("")
	assert.False(t, ok)
}
