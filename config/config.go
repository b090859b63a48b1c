package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, read once at startup.
type Config struct {
	Port string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessSecret  string
	RefreshSecret string

	// Rate limit applied to sign-up / sign-in per client address.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Media CDN (ImageKit-compatible) credentials and endpoints.
	MediaPublicKey      string
	MediaPrivateKey     string
	MediaURLEndpoint    string
	MediaUploadEndpoint string

	// Optional onboarding workflow endpoint, empty disables notifications.
	OnboardingWebhook string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=library password= dbname=library port=5432 sslmode=disable"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		AccessSecret:      getEnv("ACCESS_SECRET", ""),
		RefreshSecret:     getEnv("REFRESH_SECRET", ""),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 5),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		MediaPublicKey:      getEnv("MEDIA_PUBLIC_KEY", ""),
		MediaPrivateKey:     getEnv("MEDIA_PRIVATE_KEY", ""),
		MediaURLEndpoint:    getEnv("MEDIA_URL_ENDPOINT", ""),
		MediaUploadEndpoint: getEnv("MEDIA_UPLOAD_ENDPOINT", "https://upload.imagekit.io/api/v1/files/upload"),

		OnboardingWebhook: getEnv("ONBOARDING_WEBHOOK", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
