// @title GreenPath Backend API
// @version 1.0
// @description GreenPath community waste reporting API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Supabase access token: "Bearer <token>"

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "GREENPATH_BACK-END/docs" // This is required for swagger
	"GREENPATH_BACK-END/internal/access"
	"GREENPATH_BACK-END/internal/classifier"
	"GREENPATH_BACK-END/internal/config"
	"GREENPATH_BACK-END/internal/database"
	"GREENPATH_BACK-END/internal/email"
	"GREENPATH_BACK-END/internal/handlers"
	"GREENPATH_BACK-END/internal/logger"
	"GREENPATH_BACK-END/internal/middleware"
	"GREENPATH_BACK-END/internal/repository"
	"GREENPATH_BACK-END/internal/routes"
	"GREENPATH_BACK-END/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.GetDSN(), cfg.Database, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			zl.Fatal("migrations failed", zap.Error(err))
		}
		zl.Info("migrations applied")
	}

	// --- Platform clients ---
	platform := supabase.NewClient(cfg.Supabase, zl)
	authClient := supabase.NewAuthClient(platform)
	storage := supabase.NewStorageClient(platform, cfg.Supabase.Bucket, cfg.Supabase.MaxImageBytes)
	{
		bctx, cancel := context.WithTimeout(ctx, cfg.Supabase.RequestTimeout)
		if err := storage.EnsureBucket(bctx); err != nil {
			zl.Warn("could not ensure storage bucket, uploads may fail", zap.String("bucket", storage.Bucket()), zap.Error(err))
		}
		cancel()
	}

	var wasteClassifier handlers.Classifier
	if cfg.IsGeminiConfigured() {
		g, err := classifier.NewGemini(ctx, cfg.Gemini, zl)
		if err != nil {
			zl.Warn("gemini client unavailable, analysis disabled", zap.Error(err))
		} else {
			wasteClassifier = g
		}
	}
	mailer := email.New(cfg.Email, zl)

	// --- Repositories ---
	posts := repository.NewWastePostRepository(pool)
	profiles := repository.NewProfileRepository(pool)
	notifications := repository.NewNotificationRepository(pool, zl)
	resolver := access.NewResolver(profiles)

	// --- HTTP Handlers ---
	imageOpts := handlers.ImageOptions{MaxBytes: cfg.Supabase.MaxImageBytes, SignedURLTTL: cfg.Supabase.SignedURLTTL}
	router := routes.NewRouter(routes.Handlers{
		Health:        handlers.NewHealthHandler(pool),
		Auth:          handlers.NewAuthHandler(authClient, profiles, resolver, cfg.App, zl),
		GoogleAuth:    handlers.NewGoogleAuthHandler(cfg.GoogleOAuth, cfg.App.FrontendURL, authClient, profiles, zl),
		Session:       handlers.NewSessionHandler(resolver, zl),
		Profile:       handlers.NewProfileHandler(profiles, zl),
		WastePosts:    handlers.NewWastePostHandler(posts, storage, imageOpts, zl),
		Scanner:       handlers.NewScannerHandler(storage, wasteClassifier, imageOpts, zl),
		Notifications: handlers.NewNotificationsHandler(notifications, zl),
		Admin:         handlers.NewAdminHandler(posts, notifications, storage, mailer, zl),
	}, middleware.NewTokenVerifier(cfg.Supabase), resolver, zl)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	var handler http.Handler = c.Handler(router)
	if cfg.Server.MaxBodyBytes > 0 {
		handler = http.MaxBytesHandler(handler, cfg.Server.MaxBodyBytes)
	}

	// --- HTTP Server + Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		zl.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown error", zap.Error(err))
	}
	zl.Info("server stopped")
}
