package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Cache     CacheConfig
	Cookie    CookieConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// UpstreamConfig points at the external job/application API. BaseURL is used
// for server-side fetches; PublicBaseURL is the address browsers can reach,
// which may differ when the server talks to the API over an internal network.
type UpstreamConfig struct {
	BaseURL       string
	PublicBaseURL string
	Timeout       time.Duration
}

// CacheConfig bounds staleness of server-side job fetches. Token-resolution
// fetches are never cached.
type CacheConfig struct {
	JobsTTL time.Duration
	JobTTL  time.Duration
}

type CookieConfig struct {
	Prefix     string
	MaxAgeDays int
}

type RateLimitConfig struct {
	Requests int
	Window   int
}

type LogConfig struct {
	Level  string
	Format string
}

var Cfg *Config

func Load() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Upstream: UpstreamConfig{
			BaseURL:       getEnv("API_URL", "http://localhost:3000"),
			PublicBaseURL: getEnv("PUBLIC_API_URL", "http://localhost:3000"),
			Timeout:       parseDuration(getEnv("API_TIMEOUT", "15s")),
		},
		Cache: CacheConfig{
			JobsTTL: parseDuration(getEnv("JOBS_CACHE_TTL", "24h")),
			JobTTL:  parseDuration(getEnv("JOB_CACHE_TTL", "60s")),
		},
		Cookie: CookieConfig{
			Prefix:     getEnv("EDIT_TOKEN_COOKIE_PREFIX", "rtg_apply_"),
			MaxAgeDays: parseInt(getEnv("EDIT_TOKEN_COOKIE_DAYS", "30")),
		},
		RateLimit: RateLimitConfig{
			Requests: parseInt(getEnv("RATE_LIMIT_REQUESTS", "100")),
			Window:   parseInt(getEnv("RATE_LIMIT_WINDOW", "60")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	Cfg = cfg
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Hour
	}
	return d
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// CookieMaxAge returns the edit token cookie lifetime in seconds.
func (c *Config) CookieMaxAge() int {
	return c.Cookie.MaxAgeDays * 24 * 60 * 60
}
