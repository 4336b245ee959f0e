package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Database (optional, users and mood history fall back to memory)
	DatabaseURL string `yaml:"database_url"`
	DBMaxConns  int    `yaml:"db_max_conns"`
	DBMinConns  int    `yaml:"db_min_conns"`

	// Server
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// Authentication
	JWTSecret string `yaml:"jwt_secret"`

	// GeneratedSecret is set when JWTSecret was generated for a development run
	GeneratedSecret bool `yaml:"-"`

	// Environment
	Environment string `yaml:"environment"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// TMDB
	TMDBBaseURL       string        `yaml:"tmdb_base_url"`
	TMDBImageBaseURL  string        `yaml:"tmdb_image_base_url"`
	TMDBBearerToken   string        `yaml:"tmdb_bearer_token"`
	TMDBTimeout       time.Duration `yaml:"tmdb_timeout"`
	TMDBRateLimit     float64       `yaml:"tmdb_rate_limit"`
	TMDBRetryAttempts int           `yaml:"tmdb_retry_attempts"`

	// Mood recommendation service
	MoodAPIURL  string        `yaml:"mood_api_url"`
	MoodTimeout time.Duration `yaml:"mood_timeout"`

	// Catalog
	ListLimit           int           `yaml:"list_limit"`
	MaxRecommendations  int           `yaml:"max_recommendations"`
	EnrichWorkers       int           `yaml:"enrich_workers"`
	GenreCacheTTL       time.Duration `yaml:"genre_cache_ttl"`
	SearchCacheTTL      time.Duration `yaml:"search_cache_ttl"`
	WarmInterval        time.Duration `yaml:"warm_interval"`
	RecommendRatePerMin int           `yaml:"recommend_rate_per_min"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		DBMaxConns:          10,
		DBMinConns:          2,
		Port:                8080,
		Host:                "0.0.0.0",
		Environment:         "development",
		LogLevel:            "",
		TMDBBaseURL:         "https://api.themoviedb.org/3",
		TMDBImageBaseURL:    "https://image.tmdb.org/t/p/w500",
		TMDBTimeout:         10 * time.Second,
		TMDBRateLimit:       40,
		TMDBRetryAttempts:   2,
		MoodAPIURL:          "http://127.0.0.1:5001/get-movies",
		MoodTimeout:         20 * time.Second,
		ListLimit:           10,
		MaxRecommendations:  20,
		EnrichWorkers:       4,
		GenreCacheTTL:       24 * time.Hour,
		SearchCacheTTL:      time.Hour,
		WarmInterval:        30 * time.Minute,
		RecommendRatePerMin: 30,
	}
}

// Load reads configuration from an optional YAML file (CONFIG_FILE) and then
// from environment variables, which take precedence
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBMaxConns = getEnvAsInt("DB_MAX_CONNS", cfg.DBMaxConns)
	cfg.DBMinConns = getEnvAsInt("DB_MIN_CONNS", cfg.DBMinConns)
	cfg.Port = getEnvAsInt("PORT", cfg.Port)
	cfg.Host = getEnv("HOST", cfg.Host)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	cfg.TMDBBaseURL = getEnv("TMDB_BASE_URL", cfg.TMDBBaseURL)
	cfg.TMDBImageBaseURL = getEnv("TMDB_IMAGE_BASE_URL", cfg.TMDBImageBaseURL)
	cfg.TMDBBearerToken = getEnv("TMDB_BEARER_TOKEN", cfg.TMDBBearerToken)
	cfg.TMDBTimeout = getEnvAsDuration("TMDB_TIMEOUT", cfg.TMDBTimeout)
	cfg.TMDBRateLimit = getEnvAsFloat("TMDB_RATE_LIMIT", cfg.TMDBRateLimit)
	cfg.TMDBRetryAttempts = getEnvAsInt("TMDB_RETRY_ATTEMPTS", cfg.TMDBRetryAttempts)

	cfg.MoodAPIURL = getEnv("MOOD_API_URL", cfg.MoodAPIURL)
	cfg.MoodTimeout = getEnvAsDuration("MOOD_TIMEOUT", cfg.MoodTimeout)

	cfg.ListLimit = getEnvAsInt("LIST_LIMIT", cfg.ListLimit)
	cfg.MaxRecommendations = getEnvAsInt("MAX_RECOMMENDATIONS", cfg.MaxRecommendations)
	cfg.EnrichWorkers = getEnvAsInt("ENRICH_WORKERS", cfg.EnrichWorkers)
	cfg.GenreCacheTTL = getEnvAsDuration("GENRE_CACHE_TTL", cfg.GenreCacheTTL)
	cfg.SearchCacheTTL = getEnvAsDuration("SEARCH_CACHE_TTL", cfg.SearchCacheTTL)
	cfg.WarmInterval = getEnvAsDuration("WARM_INTERVAL", cfg.WarmInterval)
	cfg.RecommendRatePerMin = getEnvAsInt("RECOMMEND_RATE_PER_MIN", cfg.RecommendRatePerMin)

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		cfg.JWTSecret = secret
		cfg.GeneratedSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if c.TMDBBearerToken == "" {
		return fmt.Errorf("TMDB_BEARER_TOKEN is required")
	}

	if c.TMDBBaseURL == "" || c.MoodAPIURL == "" {
		return fmt.Errorf("TMDB_BASE_URL and MOOD_API_URL must not be empty")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.ListLimit <= 0 || c.MaxRecommendations <= 0 || c.EnrichWorkers <= 0 {
		return fmt.Errorf("LIST_LIMIT, MAX_RECOMMENDATIONS and ENRICH_WORKERS must be positive")
	}

	if c.TMDBRetryAttempts < 1 {
		return fmt.Errorf("TMDB_RETRY_ATTEMPTS must be at least 1")
	}

	if c.TMDBRateLimit <= 0 || c.RecommendRatePerMin <= 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT and RECOMMEND_RATE_PER_MIN must be positive")
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MAX_CONNS must be positive and DB_MIN_CONNS between 0 and DB_MAX_CONNS")
	}

	if c.GenreCacheTTL < 0 || c.SearchCacheTTL < 0 || c.WarmInterval < 0 {
		return fmt.Errorf("cache TTLs and WARM_INTERVAL must not be negative")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase reports whether a PostgreSQL URL was configured
func (c *Config) HasDatabase() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsDuration accepts Go durations ("90s", "24h")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
