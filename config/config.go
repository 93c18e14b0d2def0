package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Catalog   CatalogConfig
	Firebase  FirebaseConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Mirror    MirrorConfig
	CORS      CORSConfig
	S3        S3Config
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// CatalogConfig selects where recipe records live.
type CatalogConfig struct {
	Backend    string // postgres, firestore
	Collection string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	WebAPIKey       string
	IdentityBaseURL string // Identity Toolkit REST endpoint
}

type AuthConfig struct {
	Provider    string // local, firebase
	JWTSecret   string
	TokenExpiry time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MirrorConfig controls the on-device snapshot mirror.
type MirrorConfig struct {
	Backend   string // badger, redis, memory
	Dir       string
	KeyPrefix string
	Timeout   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type SchedulerConfig struct {
	CartReconcileSpec string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "kitchen"),
			Password: getEnv("DB_PASSWORD", "kitchen"),
			DBName:   getEnv("DB_NAME", "mykitchen"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Catalog: CatalogConfig{
			Backend:    getEnv("CATALOG_BACKEND", "postgres"),
			Collection: getEnv("CATALOG_COLLECTION", "recipes"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       firstNonEmpty(os.Getenv("FIREBASE_PROJECT_ID"), os.Getenv("GOOGLE_CLOUD_PROJECT")),
			CredentialsFile: firstNonEmpty(os.Getenv("FIREBASE_CREDENTIALS_FILE"), os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
			WebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
			IdentityBaseURL: getEnv("FIREBASE_IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com/v1"),
		},
		Auth: AuthConfig{
			Provider:    getEnv("AUTH_PROVIDER", "local"),
			JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),
			TokenExpiry: parseDuration(getEnv("JWT_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Mirror: MirrorConfig{
			Backend:   getEnv("MIRROR_BACKEND", "badger"),
			Dir:       getEnv("MIRROR_DIR", "./data/mirror"),
			KeyPrefix: getEnv("MIRROR_KEY_PREFIX", "mykitchen:"),
			Timeout:   parseDuration(getEnv("MIRROR_TIMEOUT", "2s"), 2*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "mykitchen-recipe-images"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Scheduler: SchedulerConfig{
			CartReconcileSpec: getEnv("CART_RECONCILE_SPEC", "@every 10m"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Backend {
	case "postgres", "firestore":
	default:
		return fmt.Errorf("config: unknown CATALOG_BACKEND %q", c.Catalog.Backend)
	}
	switch c.Auth.Provider {
	case "local", "firebase":
	default:
		return fmt.Errorf("config: unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}
	switch c.Mirror.Backend {
	case "badger", "redis", "memory":
	default:
		return fmt.Errorf("config: unknown MIRROR_BACKEND %q", c.Mirror.Backend)
	}
	if (c.Catalog.Backend == "firestore" || c.Auth.Provider == "firebase") && c.Firebase.ProjectID == "" {
		return fmt.Errorf("config: FIREBASE_PROJECT_ID is required for firestore/firebase")
	}
	if c.Mirror.Backend == "redis" && c.Redis.Host == "" {
		return fmt.Errorf("config: REDIS_HOST is required when MIRROR_BACKEND=redis")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr returns host:port, or "" when redis is not configured.
func (c *RedisConfig) Addr() string {
	if c.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
