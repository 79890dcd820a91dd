package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/classifier"
	"GREENPATH_BACK-END/internal/email"
	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/repository"
	"GREENPATH_BACK-END/internal/supabase"
	"GREENPATH_BACK-END/internal/utils"
)

var (
	aliceID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bobID   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	alice   = models.AuthUser{ID: aliceID, Email: "alice@example.com", Name: "Alice", AccessToken: "alice-token"}
	bob     = models.AuthUser{ID: bobID, Email: "bob@example.com", Name: "Bob", AccessToken: "bob-token"}

	fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	errDB    = errors.New("connection refused")
)

// newRequest builds a request with an optional JSON body, caller and {id} route var
func newRequest(t *testing.T, method, target string, body any, user *models.AuthUser, id string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	if user != nil {
		r = r.WithContext(utils.WithAuthUser(r.Context(), *user))
	}
	if id != "" {
		r = mux.SetURLVars(r, map[string]string{"id": id})
	}
	return r
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// fakePosts is an in-memory WastePostStore
type fakePosts struct {
	mu      sync.Mutex
	posts   map[uuid.UUID]*models.WastePost
	err     error
	lastF   models.WastePostFilter
	deleted []uuid.UUID
}

func newFakePosts(posts ...models.WastePost) *fakePosts {
	f := &fakePosts{posts: map[uuid.UUID]*models.WastePost{}}
	for i := range posts {
		p := posts[i]
		f.posts[p.ID] = &p
	}
	return f
}

func (f *fakePosts) sorted() []models.WastePost {
	out := make([]models.WastePost, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakePosts) List(_ context.Context, filter models.WastePostFilter) ([]models.WastePost, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastF = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []models.WastePost
	for _, p := range f.sorted() {
		if filter.UserID != nil && p.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		matched = append(matched, p)
	}
	total := len(matched)
	if filter.Offset >= total {
		return []models.WastePost{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit == 0 || end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (f *fakePosts) All(context.Context) ([]models.WastePost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.sorted(), nil
}

func (f *fakePosts) Get(_ context.Context, id uuid.UUID) (*models.WastePost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) Create(_ context.Context, p *models.WastePost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.posts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePosts) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*models.WastePost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = fixedNow
	cp := *p
	return &cp, nil
}

func (f *fakePosts) Stats(context.Context) (*models.WasteStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s := &models.WasteStats{ByType: map[string]int{}}
	for _, p := range f.posts {
		s.Total++
		s.ByType[p.Type]++
		switch p.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusCollected:
			s.Collected++
		}
	}
	return s, nil
}

// fakeProfiles is an in-memory ProfileStore
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
	err      error
	upserts  int
}

func newFakeProfiles(profiles ...models.Profile) *fakeProfiles {
	f := &fakeProfiles{profiles: map[uuid.UUID]*models.Profile{}}
	for i := range profiles {
		p := profiles[i]
		f.profiles[p.ID] = &p
	}
	return f
}

func (f *fakeProfiles) Get(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, id uuid.UUID, emailAddr, name string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		p = &models.Profile{ID: id, Role: models.RoleUser, CreatedAt: fixedNow}
		f.profiles[id] = p
	}
	p.Email = emailAddr
	if name != "" {
		p.Name = name
	}
	p.UpdatedAt = fixedNow
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) UpdateName(_ context.Context, id uuid.UUID, name string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Name = name
	cp := *p
	return &cp, nil
}

// fakeNotifications is an in-memory NotificationStore
type fakeNotifications struct {
	mu        sync.Mutex
	items     []models.Notification
	err       error
	createErr error
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = uuid.New()
	n.CreatedAt = fixedNow
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeNotifications) List(_ context.Context, userID uuid.UUID, filter models.NotificationFilter) ([]models.Notification, int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, 0, f.err
	}
	var out []models.Notification
	total, unread := 0, 0
	for _, n := range f.items {
		if n.UserID != userID {
			continue
		}
		if !n.Read {
			unread++
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		total++
		out = append(out, n)
	}
	return out, total, unread, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		if f.items[i].UserID != userID {
			return repository.ErrNotOwner
		}
		f.items[i].Read = true
		return nil
	}
	return repository.ErrNotFound
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for i := range f.items {
		if f.items[i].UserID == userID && !f.items[i].Read {
			f.items[i].Read = true
			n++
		}
	}
	return n, nil
}

// fakeImages records uploads and removals
type fakeImages struct {
	mu        sync.Mutex
	uploaded  map[string]string // path -> content type
	removed   []string
	uploadErr error
	signErr   error
}

func newFakeImages() *fakeImages {
	return &fakeImages{uploaded: map[string]string{}}
}

func (f *fakeImages) Upload(_ context.Context, path string, _ []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded[path] = contentType
	return nil
}

func (f *fakeImages) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://storage.test/sign/" + path + "?token=t", nil
}

func (f *fakeImages) Remove(_ context.Context, paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, paths...)
	return nil
}

// fakeAuth scripts AuthProvider answers
type fakeAuth struct {
	user       *supabase.User
	session    *supabase.Session
	err        error
	signedOut  []string
	recoveries []string
	provider   string
	idToken    string
}

func (f *fakeAuth) SignUp(_ context.Context, emailAddr, _, name string) (*supabase.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil {
		return f.user, nil
	}
	return &supabase.User{ID: aliceID.String(), Email: emailAddr, UserMetadata: map[string]any{"name": name}}, nil
}

func (f *fakeAuth) SignIn(context.Context, string, string) (*supabase.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) Refresh(context.Context, string) (*supabase.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) SignInWithIDToken(_ context.Context, provider, idToken string) (*supabase.Session, error) {
	f.provider, f.idToken = provider, idToken
	return f.session, f.err
}

func (f *fakeAuth) SignOut(_ context.Context, accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return f.err
}

func (f *fakeAuth) Recover(_ context.Context, emailAddr, redirectTo string) error {
	f.recoveries = append(f.recoveries, emailAddr+"|"+redirectTo)
	return f.err
}

// fakeClassifier returns a canned analysis
type fakeClassifier struct {
	result   *classifier.Analysis
	err      error
	mimeType string
}

func (f *fakeClassifier) Classify(_ context.Context, _ []byte, mimeType string) (*classifier.Analysis, error) {
	f.mimeType = mimeType
	return f.result, f.err
}

// fakeAdmins treats listed ids and app_metadata admins as admins
type fakeAdmins struct {
	admins map[uuid.UUID]bool
	err    error
}

func (f fakeAdmins) IsAdmin(_ context.Context, u models.AuthUser) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return u.AppRole == models.RoleAdmin || f.admins[u.ID], nil
}

// fakeMailer records sent messages
type fakeMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg email.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func samplePost(owner models.AuthUser, location, wasteType, status string, age time.Duration) models.WastePost {
	return models.WastePost{
		ID:        uuid.New(),
		UserID:    owner.ID,
		UserEmail: owner.Email,
		UserName:  owner.Name,
		Type:      wasteType,
		Title:     wasteType + " near " + location,
		Location:  location,
		Status:    status,
		CreatedAt: fixedNow.Add(-age),
		UpdatedAt: fixedNow.Add(-age),
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
