package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port       string
	Env        string
	LogLevel   string
	CORSOrigin string

	DBURL string

	JWTSecret     string
	SessionTTL    time.Duration
	SessionCookie string

	FirebaseProjectID   string
	FirebaseCredentials string

	Storage StorageConfig

	UploadURLTTL            time.Duration
	AssetCleanupTimeout     time.Duration
	AssetCleanupConcurrency int

	Redis RedisConfig
}

type StorageConfig struct {
	Bucket         string
	DownloadHost   string
	Endpoint       string
	Region         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using system environment variables")
	}

	var err error
	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		SessionCookie: getEnv("SESSION_COOKIE", "session"),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		Storage: StorageConfig{
			DownloadHost: getEnv("STORAGE_DOWNLOAD_HOST", "firebasestorage.googleapis.com"),
			Endpoint:     getEnv("STORAGE_ENDPOINT", "https://storage.googleapis.com"),
			Region:       getEnv("STORAGE_REGION", "auto"),
			AccessKey:    getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:    getEnv("STORAGE_SECRET_KEY", ""),
		},

		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
	}

	if cfg.DBURL, err = mustEnv("DB_URL"); err != nil {
		return nil, err
	}
	if cfg.JWTSecret, err = mustEnv("JWT_SECRET"); err != nil {
		return nil, err
	}
	if cfg.FirebaseProjectID, err = mustEnv("FIREBASE_PROJECT_ID"); err != nil {
		return nil, err
	}
	if cfg.Storage.Bucket, err = mustEnv("STORAGE_BUCKET"); err != nil {
		return nil, err
	}

	if cfg.Storage.ForcePathStyle, err = getBool("STORAGE_FORCE_PATH_STYLE", true); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 14*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.UploadURLTTL, err = getDuration("UPLOAD_URL_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AssetCleanupTimeout, err = getDuration("ASSET_CLEANUP_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AssetCleanupConcurrency, err = getInt("ASSET_CLEANUP_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", errors.Errorf("missing required environment variable: %s", key)
	}
	return v, nil
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration in %s", key)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer in %s", key)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "invalid boolean in %s", key)
	}
	return b, nil
}
