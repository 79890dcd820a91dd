package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"GREENPATH_BACK-END/internal/classifier"
	"GREENPATH_BACK-END/internal/dto"
	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/supabase"
	"GREENPATH_BACK-END/internal/utils"
)

// WastePostStore is implemented by repository.WastePostRepository
type WastePostStore interface {
	List(ctx context.Context, f models.WastePostFilter) ([]models.WastePost, int, error)
	All(ctx context.Context) ([]models.WastePost, error)
	Get(ctx context.Context, id uuid.UUID) (*models.WastePost, error)
	Create(ctx context.Context, p *models.WastePost) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.WastePost, error)
	Stats(ctx context.Context) (*models.WasteStats, error)
}

// ProfileStore is implemented by repository.ProfileRepository
type ProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, email, name string) (*models.Profile, error)
	UpdateName(ctx context.Context, userID uuid.UUID, name string) (*models.Profile, error)
}

// NotificationStore is implemented by repository.NotificationRepository
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID uuid.UUID, f models.NotificationFilter) ([]models.Notification, int, int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ImageStore is implemented by supabase.StorageClient
type ImageStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, paths ...string) error
}

// AuthProvider is implemented by supabase.AuthClient
type AuthProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*supabase.User, error)
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*supabase.Session, error)
	SignInWithIDToken(ctx context.Context, provider, idToken string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	Recover(ctx context.Context, email, redirectTo string) error
}

// Classifier is implemented by classifier.Gemini
type Classifier interface {
	Classify(ctx context.Context, image []byte, mimeType string) (*classifier.Analysis, error)
}

// AdminResolver is implemented by access.Resolver
type AdminResolver interface {
	IsAdmin(ctx context.Context, user models.AuthUser) (bool, error)
}

const requestTimeout = 10 * time.Second

// pathID parses the {id} route variable
func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid id", what+" id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// authUser returns the caller or writes a 401
func authUser(w http.ResponseWriter, r *http.Request) (models.AuthUser, bool) {
	u, ok := utils.GetAuthUser(r.Context())
	if !ok || u.ID == uuid.Nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return models.AuthUser{}, false
	}
	return u, true
}

func toWastePostResponse(p models.WastePost, now time.Time) dto.WastePostResponse {
	userName := p.UserName
	if userName == "" {
		userName = "Anonymous"
	}
	tips := p.Tips
	if len(tips) == 0 {
		tips = nil
	}
	return dto.WastePostResponse{
		ID:          p.ID.String(),
		Type:        p.Type,
		Title:       p.Title,
		Location:    p.Location,
		Description: p.Description,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		ImageURL:    p.ImageURL,
		Status:      p.Status,
		ItemName:    p.ItemName,
		BinType:     p.BinType,
		Recyclable:  p.Recyclable,
		Tips:        tips,
		UserID:      p.UserID.String(),
		UserEmail:   p.UserEmail,
		UserName:    userName,
		CreatedAt:   utils.FormatTimestamp(p.CreatedAt),
		UpdatedAt:   utils.FormatTimestamp(p.UpdatedAt),
		TimeAgo:     utils.TimeAgo(p.CreatedAt, now),
	}
}

func toWastePostResponses(posts []models.WastePost, now time.Time) []dto.WastePostResponse {
	out := make([]dto.WastePostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toWastePostResponse(p, now))
	}
	return out
}

func toProfileResponse(p *models.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        p.ID.String(),
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role,
		CreatedAt: utils.FormatTimestamp(p.CreatedAt),
		UpdatedAt: utils.FormatTimestamp(p.UpdatedAt),
	}
}

func toUserResponse(u supabase.User, role string) dto.UserResponse {
	resp := dto.UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.MetadataString("name"),
		Role:  role,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = utils.FormatTimestamp(u.CreatedAt)
	}
	return resp
}

func toSessionTokens(s *supabase.Session) dto.SessionTokens {
	return dto.SessionTokens{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
	}
}
