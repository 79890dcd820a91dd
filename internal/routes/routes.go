package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/handlers"
	"GREENPATH_BACK-END/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	GoogleAuth    *handlers.GoogleAuthHandler
	Session       *handlers.SessionHandler
	Profile       *handlers.ProfileHandler
	WastePosts    *handlers.WastePostHandler
	Scanner       *handlers.ScannerHandler
	Notifications *handlers.NotificationsHandler
	Admin         *handlers.AdminHandler
}

// NewRouter configures all application routes
func NewRouter(h Handlers, verifier *middleware.TokenVerifier, admins middleware.AdminResolver, log *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))

	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.AuthMiddleware(next, verifier)
	}
	optional := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.OptionalAuth(next, verifier)
	}
	adminOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.AuthMiddleware(middleware.RequireAdmin(next, admins, log), verifier)
	}

	// Health check routes
	r.HandleFunc("/healthz", h.Health.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.Health.LivenessCheck).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Health.ReadinessCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Authentication routes
	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", auth(h.Auth.Logout)).Methods(http.MethodPost)
	api.HandleFunc("/auth/forgot-password", h.Auth.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/google/login", h.GoogleAuth.GoogleLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/google/callback", h.GoogleAuth.GoogleCallback).Methods(http.MethodGet)

	// Session and profile
	api.HandleFunc("/session", optional(h.Session.GetSession)).Methods(http.MethodGet)
	api.HandleFunc("/profile", auth(h.Profile.GetProfile)).Methods(http.MethodGet)
	api.HandleFunc("/profile", auth(h.Profile.UpdateProfile)).Methods(http.MethodPut)

	// Waste posts. hotspots must be registered before {id}.
	api.HandleFunc("/waste-posts/hotspots", h.WastePosts.Hotspots).Methods(http.MethodGet)
	api.HandleFunc("/waste-posts", optional(h.WastePosts.ListWastePosts)).Methods(http.MethodGet)
	api.HandleFunc("/waste-posts", auth(h.WastePosts.CreateWastePost)).Methods(http.MethodPost)
	api.HandleFunc("/waste-posts/{id}", h.WastePosts.GetWastePost).Methods(http.MethodGet)
	api.HandleFunc("/waste-posts/{id}", auth(h.WastePosts.DeleteWastePost)).Methods(http.MethodDelete)

	// Scanner
	api.HandleFunc("/upload-image", auth(h.Scanner.UploadImage)).Methods(http.MethodPost)
	api.HandleFunc("/analyze-waste", auth(h.Scanner.AnalyzeWaste)).Methods(http.MethodPost)

	// Notifications
	api.HandleFunc("/notifications", auth(h.Notifications.ListNotifications)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", auth(h.Notifications.MarkAllRead)).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}/read", auth(h.Notifications.MarkRead)).Methods(http.MethodPost)

	// Admin
	api.HandleFunc("/admin/stats", adminOnly(h.Admin.Stats)).Methods(http.MethodGet)
	api.HandleFunc("/admin/waste-posts", adminOnly(h.Admin.ListWastePosts)).Methods(http.MethodGet)
	api.HandleFunc("/admin/waste-posts/{id}/status", adminOnly(h.Admin.UpdateStatus)).Methods(http.MethodPatch)
	api.HandleFunc("/admin/waste-posts/{id}", adminOnly(h.Admin.DeleteWastePost)).Methods(http.MethodDelete)
	api.HandleFunc("/admin/actions", adminOnly(h.Admin.Action)).Methods(http.MethodPost)

	// Swagger UI
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Root route
	r.HandleFunc("/", rootHandler).Methods(http.MethodGet)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("GreenPath backend is running."))
}
