package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultFrontendURL is used when FRONTEND_URL is not set
const DefaultFrontendURL = "http://localhost:5173"

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Supabase platform configuration (auth, storage)
	Supabase SupabaseConfig

	// Gemini image classification configuration
	Gemini GeminiConfig

	// Google OAuth configuration
	GoogleOAuth GoogleOAuthConfig

	// CORS configuration
	CORS CORSConfig

	// Email configuration
	Email EmailConfig

	// Logging configuration
	Log LogConfig

	// Frontend-facing settings
	App AppConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	MaxLifetime  time.Duration
	ConnTimeout  time.Duration
	QueryTimeout time.Duration
	AutoMigrate  bool
}

// SupabaseConfig holds the hosted platform endpoints and keys
type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	JWTSecret      string
	JWTAudience    string
	Bucket         string
	SignedURLTTL   time.Duration
	MaxImageBytes  int64
	RequestTimeout time.Duration
}

// GeminiConfig holds generative AI classification configuration
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// EmailConfig holds outgoing email configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Development bool
}

// AppConfig holds settings about the browser application
type AppConfig struct {
	FrontendURL           string
	PasswordResetRedirect string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		// Try loading from parent directory when started from cmd/
		if err := godotenv.Load("../.env"); err != nil {
			log.Printf("Warning: .env file not found: %v", err)
		}
	}

	config := FromEnv()

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds the configuration from the current environment without validating it
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
			MaxBodyBytes:    getInt64Env("SERVER_MAX_BODY_BYTES", 8<<20),
		},
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "postgres"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getInt32Env("DB_MAX_CONNS", 5),
			MinConns:     getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout:  getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			QueryTimeout: getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
			AutoMigrate:  getBoolEnv("DB_AUTO_MIGRATE", false),
		},
		Supabase: SupabaseConfig{
			URL:            strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			AnonKey:        getEnv("SUPABASE_ANON_KEY", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			JWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
			JWTAudience:    getEnv("SUPABASE_JWT_AUDIENCE", "authenticated"),
			Bucket:         getEnv("SUPABASE_BUCKET", "greenpath-waste-images"),
			SignedURLTTL:   getDurationEnv("SUPABASE_SIGNED_URL_TTL", 365*24*time.Hour), // 1 year
			MaxImageBytes:  getInt64Env("SUPABASE_MAX_IMAGE_BYTES", 5<<20),              // 5MB
			RequestTimeout: getDurationEnv("SUPABASE_REQUEST_TIMEOUT", 15*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout: getDurationEnv("GEMINI_TIMEOUT", 30*time.Second),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "apikey", "x-client-info"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("EMAIL_FROM", "noreply@greenpath.local"),
			FromName:       getEnv("EMAIL_FROM_NAME", "GreenPath"),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getBoolEnv("LOG_DEVELOPMENT", false),
		},
		App: AppConfig{
			FrontendURL:           strings.TrimRight(getEnv("FRONTEND_URL", DefaultFrontendURL), "/"),
			PasswordResetRedirect: getEnv("PASSWORD_RESET_REDIRECT", ""),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD or DATABASE_URL is required")
	}
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceRoleKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required")
	}
	if c.Supabase.JWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if u, err := url.Parse(c.App.FrontendURL); err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("FRONTEND_URL must be an absolute URL, got %q", c.App.FrontendURL)
	}
	if c.Supabase.AnonKey == "" {
		log.Println("Warning: SUPABASE_ANON_KEY not set. Password login will use the service role key as apikey.")
	}

	if !c.IsGeminiConfigured() {
		log.Println("Warning: GEMINI_API_KEY not configured. Waste analysis will ask clients to use mock results.")
	}
	if !c.IsGoogleOAuthConfigured() {
		log.Println("Warning: Google OAuth credentials not configured. Google login will not work.")
	}
	if !c.IsEmailConfigured() {
		log.Println("Warning: SENDGRID_API_KEY not configured. Emails will only be logged.")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// IsGeminiConfigured checks if the classification API key is present
func (c *Config) IsGeminiConfigured() bool {
	return c.Gemini.APIKey != ""
}

// IsEmailConfigured checks if email service is properly configured
func (c *Config) IsEmailConfigured() bool {
	return c.Email.SendGridAPIKey != "" && c.Email.FromEmail != ""
}

// IsGoogleOAuthConfigured checks if Google OAuth is properly configured
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.GoogleOAuth.ClientID != "" && c.GoogleOAuth.ClientSecret != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
