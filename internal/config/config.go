package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel  string // empty picks the default level of the environment
	Server    ServerConfig
	Catalog   CatalogConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Client    ClientConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// CatalogConfig controls the seed data of the mock backend
type CatalogConfig struct {
	SeedCount int
	Seed      int64 // 0 means seed from the clock
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host is configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns the host:port address of the Redis server
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ClientConfig configures the admin console talking to the backend
type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	SearchDebounce time.Duration
	PageSize       int
}

// Load reads configuration from .env and the environment. Environment
// variables win over .env values.
func Load() *Config {
	return load(viper.New())
}

// LoadWith is like Load but reads through v, so callers can bind flags first
func LoadWith(v *viper.Viper) *Config {
	return load(v)
}

func load(v *viper.Viper) *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "3005")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("CATALOG_SEED_COUNT", 100)
	v.SetDefault("CATALOG_SEED", 0)
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("API_BASE_URL", "http://localhost:3005/api")
	v.SetDefault("API_TIMEOUT_SECONDS", 10)
	v.SetDefault("SEARCH_DEBOUNCE_MS", 150)
	v.SetDefault("PAGE_SIZE", 10)

	return &Config{
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Catalog: CatalogConfig{
			SeedCount: v.GetInt("CATALOG_SEED_COUNT"),
			Seed:      v.GetInt64("CATALOG_SEED"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		Client: ClientConfig{
			BaseURL:        v.GetString("API_BASE_URL"),
			Timeout:        time.Duration(v.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
			SearchDebounce: time.Duration(v.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond,
			PageSize:       v.GetInt("PAGE_SIZE"),
		},
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
