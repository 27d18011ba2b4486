package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from the environment
type Config struct {
	AppName    string
	AppVersion string
	Port       string
	DataDir    string

	// Security
	JWTSecret        string
	TokenExpiry      time.Duration
	TrustedProxies   []string
	CORSOrigins      []string
	RequestTimeout   time.Duration

	// ML artifacts
	ModelPath    string
	EncodersPath string

	// Alerting
	HighRiskThreshold float64
	AlertEmailEnabled bool

	// Email
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	SMTPFromEmail string
	SMTPFromName  string

	// Redis (rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from environment variables with sensible defaults
func Load() Config {
	return Config{
		AppName:    getEnvOrDefault("APP_NAME", "Lumora Mental Health API"),
		AppVersion: getEnvOrDefault("APP_VERSION", "1.0.0"),
		Port:       getEnvOrDefault("PORT", "8080"),
		DataDir:    getEnvOrDefault("DATA_DIR", "./data"),

		JWTSecret:      getEnvOrDefault("JWT_SECRET", "your-secret-key-change-this-in-production"),
		TokenExpiry:    getEnvDuration("TOKEN_EXPIRY", 7*24*time.Hour),
		TrustedProxies: getEnvList("TRUSTED_PROXIES", []string{"127.0.0.1", "::1"}),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		}),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

		ModelPath:    getEnvOrDefault("MODEL_PATH", "saved_models/model.json"),
		EncodersPath: getEnvOrDefault("ENCODERS_PATH", "saved_models/encoders.json"),

		HighRiskThreshold: getEnvFloat("HIGH_RISK_THRESHOLD", 0.7),
		AlertEmailEnabled: getEnvBool("ALERT_EMAIL_ENABLED", false),

		SMTPHost:      getEnvOrDefault("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromEmail: getEnvOrDefault("SMTP_FROM_EMAIL", "no-reply@lumora.health"),
		SMTPFromName:  getEnvOrDefault("SMTP_FROM_NAME", "Lumora Mental Health"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
