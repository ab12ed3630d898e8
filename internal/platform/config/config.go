package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Access token config
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Refresh token config
	RefreshTokenSecret         string
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string

	// Object storage (media ingestion)
	StorageEndpoint      string
	StorageAccessKey     string
	StorageSecretKey     string
	StorageBucket        string
	StorageUseSSL        bool
	StoragePublicBaseURL string

	// Generative model (diagnosis)
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// Request limits
	JSONBodyLimitBytes int64
	MaxUploadSizeBytes int64

	// CORS
	AllowedOrigins []string

	// Demo surface
	DemoUserID string

	// External OAuth providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`
}

// DemoUserID must match the user seeded by the migrations so demo records
// satisfy the images.owner_id foreign key.
const defaultDemoUserID = "00000000-0000-0000-0000-000000000d30"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "cropdoctor-backend")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this_!@#$")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "240h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "refreshToken")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/v1/users")
	viper.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	viper.SetDefault("STORAGE_ACCESS_KEY", "")
	viper.SetDefault("STORAGE_SECRET_KEY", "")
	viper.SetDefault("STORAGE_BUCKET", "cropdoctor")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("STORAGE_PUBLIC_BASE_URL", "")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	viper.SetDefault("GEMINI_TIMEOUT", "30s")
	viper.SetDefault("JSON_BODY_LIMIT_BYTES", int64(80*1024))
	viper.SetDefault("MAX_UPLOAD_SIZE_BYTES", int64(10*1024*1024))
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("DEMO_USER_ID", defaultDemoUserID)
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:5173")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RefreshTokenSecret = viper.GetString("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == "default_insecure_refresh_secret_please_change_this_!@#$" {
		log.Println("Warning: REFRESH_TOKEN_SECRET not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}

	refreshExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshExpiryDuration, err := time.ParseDuration(refreshExpiryStr)
	if err != nil {
		refreshExpiryDuration = time.Hour * 24 * 10
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshExpiryStr, refreshExpiryDuration)
	}
	cfg.RefreshTokenExpiryDuration = refreshExpiryDuration
	cfg.RefreshTokenCookieName = viper.GetString("REFRESH_TOKEN_COOKIE_NAME")
	cfg.RefreshTokenCookiePath = viper.GetString("REFRESH_TOKEN_COOKIE_PATH")

	cfg.StorageEndpoint = viper.GetString("STORAGE_ENDPOINT")
	cfg.StorageAccessKey = viper.GetString("STORAGE_ACCESS_KEY")
	cfg.StorageSecretKey = viper.GetString("STORAGE_SECRET_KEY")
	cfg.StorageBucket = viper.GetString("STORAGE_BUCKET")
	cfg.StorageUseSSL = viper.GetBool("STORAGE_USE_SSL")
	cfg.StoragePublicBaseURL = viper.GetString("STORAGE_PUBLIC_BASE_URL")
	if cfg.StorageAccessKey == "" || cfg.StorageSecretKey == "" {
		log.Println("Warning: STORAGE_ACCESS_KEY/STORAGE_SECRET_KEY not set. Media ingestion will not function.")
	}

	cfg.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. Diagnosis will not function.")
	}
	cfg.GeminiModel = viper.GetString("GEMINI_MODEL")
	cfg.GeminiBaseURL = viper.GetString("GEMINI_BASE_URL")
	geminiTimeoutStr := viper.GetString("GEMINI_TIMEOUT")
	geminiTimeout, err := time.ParseDuration(geminiTimeoutStr)
	if err != nil {
		geminiTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for GEMINI_TIMEOUT ('%s'). Defaulting to %s.\n", geminiTimeoutStr, geminiTimeout)
	}
	cfg.GeminiTimeout = geminiTimeout

	cfg.JSONBodyLimitBytes = viper.GetInt64("JSON_BODY_LIMIT_BYTES")
	cfg.MaxUploadSizeBytes = viper.GetInt64("MAX_UPLOAD_SIZE_BYTES")

	origins := viper.GetString("ALLOWED_ORIGINS")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	cfg.DemoUserID = viper.GetString("DEMO_USER_ID")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}

	return cfg, nil
}
