package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	StorageBackend  string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string
	RedisAddr       string
	RedisPassword   string
	RedisNamespace  string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	DisarmDeleteOnExit bool
	SessionTTL         time.Duration
	AllowedOrigins     []string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnvWithDefault("PORT", "8080"),
		Environment:         getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", "info"),
		StorageBackend:      strings.ToLower(getEnvWithDefault("STORAGE_BACKEND", BackendMemory)),
		MongoDBURI:          os.Getenv("MONGODB_URI"),
		MongoDBPassword:     os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase:     getEnvWithDefault("MONGODB_DATABASE", "shelf"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisNamespace:      getEnvWithDefault("REDIS_NAMESPACE", "shelf"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		AllowedOrigins:      splitList(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	disarm, err := strconv.ParseBool(getEnvWithDefault("DISARM_DELETE_ON_EXIT", "false"))
	if err != nil {
		return nil, fmt.Errorf("DISARM_DELETE_ON_EXIT must be a boolean: %v", err)
	}
	cfg.DisarmDeleteOnExit = disarm

	ttl, err := time.ParseDuration(getEnvWithDefault("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL must be a duration: %v", err)
	}
	cfg.SessionTTL = ttl

	switch cfg.StorageBackend {
	case BackendMemory:
	case BackendMongo:
		if cfg.MongoDBURI == "" {
			return nil, fmt.Errorf("MONGODB_URI is required")
		}
		if strings.Contains(cfg.MongoDBURI, "<password>") && cfg.MongoDBPassword == "" {
			return nil, fmt.Errorf("MONGODB_PASSWORD is required")
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
