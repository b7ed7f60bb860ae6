package environment

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverFirestore = "firestore"
	StoreDriverMemory    = "memory"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Server   ServerConfig
	Firebase FirebaseConfig
	Admin    AdminConfig
	OpenAI   OpenAIConfig

	StoreDriver    string
	MaxUploadBytes int64
	LogLevel       string
}

type ServerConfig struct {
	Host            string
	Port            string
	PublicBaseURL   string
	AllowedOrigins  []string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type FirebaseConfig struct {
	CredentialsBase64 string
	ProjectID         string
	StorageBucket     string
}

type AdminConfig struct {
	Username      string
	Password      string
	SessionSecret string
	CookieSecure  bool
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", "0.0.0.0"),
			Port:            getEnv("PORT", "8080"),
			PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 0),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Firebase: FirebaseConfig{
			CredentialsBase64: GetFirebaseKey(),
			ProjectID:         GetFirebaseProjectID(),
			StorageBucket:     getEnv("FIREBASE_STORAGE_BUCKET", ""),
		},
		Admin: AdminConfig{
			Username:      getEnv("ADMIN_USERNAME", "cafemaemiadmin"),
			Password:      getEnv("ADMIN_PASSWORD", ""),
			SessionSecret: getEnv("SESSION_SECRET", ""),
			CookieSecure:  getEnvAsBool("COOKIE_SECURE", false),
		},
		OpenAI: OpenAIConfig{
			APIKey:  GetOpenAIKey(),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreDriverFirestore)),
		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 2*1024*1024)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.StoreDriver {
	case StoreDriverFirestore:
		if c.Firebase.CredentialsBase64 == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_BASE64 is required for the firestore driver")
		}
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore driver")
		}
		if c.Firebase.StorageBucket == "" {
			return fmt.Errorf("FIREBASE_STORAGE_BUCKET is required for the firestore driver")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %s (must be firestore or memory)", c.StoreDriver)
	}

	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if len(c.Admin.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}

func GetOpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func GetFirebaseKey() string {
	return os.Getenv("FIREBASE_CREDENTIALS_BASE64")
}

func GetFirebaseProjectID() string {
	return os.Getenv("FIREBASE_PROJECT_ID")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
