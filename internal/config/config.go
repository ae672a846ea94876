package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Editor   EditorConfig
	Render   RenderConfig
	Keys     TopicKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	SiteURL            string // public restaurant site, used for sitemap links
	Environment        string
	LogFilePath        string
	RealtimeLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	JWTTTL             time.Duration
}

type DatabaseConfig struct {
	Connection      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

type StorageConfig struct {
	Driver          string // "local" or "gcs"
	LocalDir        string
	PublicBaseURL   string
	GCSBucket       string
	CDNDomain       string
	CredentialsFile string
	MaxUploadBytes  int64
}

type EditorConfig struct {
	AutosaveInterval time.Duration
	SessionTTL       time.Duration
	HistoryLimit     int
}

type RenderConfig struct {
	CacheTTL time.Duration
}

type TopicKeys struct {
	TocReindexTopic string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			SiteURL:            getEnv("SITE_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RealtimeLogPath:    getEnv("REALTIME_LOG_FILE_PATH", "logs/realtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", "default_secret"),
			JWTTTL:             getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			SlowQuery:       getEnvAsDuration("DB_SLOW_QUERY_THRESHOLD", 500*time.Millisecond),
		},
		Storage: StorageConfig{
			Driver:          getEnv("STORAGE_DRIVER", "local"),
			LocalDir:        getEnv("STORAGE_LOCAL_DIR", "./uploads"),
			PublicBaseURL:   getEnv("STORAGE_PUBLIC_BASE_URL", "/uploads"),
			GCSBucket:       getEnv("GCS_BUCKET", ""),
			CDNDomain:       getEnv("GCS_CDN_DOMAIN", ""),
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_BYTES", 5*1024*1024)),
		},
		Editor: EditorConfig{
			AutosaveInterval: getEnvAsDuration("EDITOR_AUTOSAVE_INTERVAL", 30*time.Second),
			SessionTTL:       getEnvAsDuration("EDITOR_SESSION_TTL", 2*time.Hour),
			HistoryLimit:     getEnvAsInt("EDITOR_HISTORY_LIMIT", 100),
		},
		Render: RenderConfig{
			CacheTTL: getEnvAsDuration("RENDER_CACHE_TTL", 10*time.Minute),
		},
		Keys: TopicKeys{
			TocReindexTopic: getEnv("TOC_REINDEX_TOPIC_NAME", "TOC_REINDEX"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("45s") or plain seconds ("45").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
