package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	AuthModeNone = "none"
	AuthModeJWT  = "jwt"

	AIModeMock   = "mock"
	AIModeOpenAI = "openai"

	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"

	defaultJWTSecret = "change_me"
)

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS     int
	RateLimitBurst   int
	RateLimitBackend string // memory | redis
	RedisURL         string

	// Blob storage for plan exports
	Blob BlobConfig

	// Authentication & Authorization
	AuthMode      string // none | jwt
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int
	AdminEmail    string // bootstrap admin, created on startup when set
	AdminPassword string

	// AI
	AIMode           string // mock | openai
	AITemperature    float64
	AITimeoutSeconds int
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string

	// Migrations
	RunMigrationsOnStartup bool

	// Warnings collected while loading; logged once the logger exists.
	Warnings []string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	cfg := &Config{}

	// APP_ENV (fallback to ENV, default: local)
	cfg.Env = os.Getenv("APP_ENV")
	if cfg.Env == "" {
		cfg.Env = os.Getenv("ENV")
	}
	if cfg.Env == "" {
		cfg.Env = "local"
	}

	cfg.Port = envInt("PORT", 8080)

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	cfg.DatabaseURLPooled = strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	cfg.DatabaseURLRaw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.DatabaseURLDirect = strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	cfg.DatabaseURL = cfg.DatabaseURLPooled
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.DatabaseURLRaw
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.DatabaseURLDirect
	}

	cfg.RunMigrationsOnStartup = parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- CORS ----------
	cfg.CORSAllowedOrigins = parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), cfg.Env)
	cfg.CORSAllowCredentials = parseBoolEnv("CORS_ALLOW_CREDENTIALS")

	// ---------- Rate Limiting ----------
	cfg.RateLimitRPS = envInt("RATE_LIMIT_RPS", 0)
	cfg.RateLimitBurst = envInt("RATE_LIMIT_BURST", 0)
	cfg.RateLimitBackend = cfg.oneOf("RATE_LIMIT_BACKEND", RateLimitBackendMemory, RateLimitBackendMemory, RateLimitBackendRedis)
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	// ---------- Blob / S3 ----------
	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}
	cfg.Blob = BlobConfig{
		Mode: cfg.oneOf("BLOB_MODE", BlobModeLocal, BlobModeLocal, BlobModeS3, BlobModeAuto),
		S3: S3Config{
			Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
			Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
			AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
			SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
			PublicBaseURL:     strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
			PresignTTLSeconds: s3PresignTTL,
			PreferPublicURL:   parseBoolEnv("S3_PREFER_PUBLIC_URL"),
		},
	}

	// ---------- Auth ----------
	cfg.AuthMode = cfg.oneOf("AUTH_MODE", AuthModeNone, AuthModeNone, AuthModeJWT)
	cfg.AuthRequired = cfg.AuthMode != AuthModeNone && parseBoolEnv("AUTH_REQUIRED")

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}
	if cfg.JWTSecret == defaultJWTSecret && cfg.Env != "local" {
		cfg.warnf("JWT_SECRET is set to %q in non-local environment", defaultJWTSecret)
	}

	cfg.JWTIssuer = os.Getenv("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "meal-planner"
	}

	// JWT_TTL_MINUTES (default: 1440 = 1 day)
	cfg.JWTTTLMinutes = envInt("JWT_TTL_MINUTES", 1440)
	if cfg.JWTTTLMinutes <= 0 {
		cfg.JWTTTLMinutes = 1440
	}

	cfg.AdminEmail = strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	// ---------- AI ----------
	cfg.AIMode = cfg.oneOf("AI_MODE", AIModeMock, AIModeMock, AIModeOpenAI)

	cfg.AITemperature = envFloat("AI_TEMPERATURE", 0.7)
	if cfg.AITemperature < 0 {
		cfg.AITemperature = 0
	}
	if cfg.AITemperature > 2 {
		cfg.AITemperature = 2
	}

	cfg.AITimeoutSeconds = envInt("AI_TIMEOUT_SECONDS", 20)
	if cfg.AITimeoutSeconds <= 0 {
		cfg.AITimeoutSeconds = 20
	}

	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}
	cfg.OpenAIBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")), "/")
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = "https://api.openai.com/v1"
	}

	return cfg
}

// IsProduction reports whether strict startup checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "staging"
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// oneOf reads an enum env var; unknown values fall back to defaultVal with a warning.
func (c *Config) oneOf(key string, defaultVal string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	c.warnf("unknown %s=%q, fallback to %s", key, v, defaultVal)
	return defaultVal
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:5173"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
