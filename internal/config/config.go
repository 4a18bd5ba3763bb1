// Package config loads service configuration from an optional YAML file with
// environment variable overrides.
package config

import "time"

// Default configuration values.
const (
	defaultServiceName       = "campuswatch"
	defaultServiceVersion    = "1.0.0"
	defaultServicePort       = 8080
	defaultDBHost            = "localhost"
	defaultDBPort            = "5432"
	defaultDBUser            = "postgres"
	defaultDBName            = "campuswatch"
	defaultDBSSLMode         = "disable"
	defaultLocationFilter    = "campus OR university OR college"
	defaultMaxArticles       = 50
	defaultCacheFreshness    = 6 * time.Hour
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	defaultTokenExpiryHours  = 168
)

// Config holds all configuration for the campuswatch service.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	NewsAPI   NewsAPIConfig   `yaml:"newsapi"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"CAMPUSWATCH_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"        yaml:"debug"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_HOST"     yaml:"host"`
	Port     string `env:"POSTGRES_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_USER"     yaml:"user"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
}

// NewsAPIConfig holds the news source configuration.
type NewsAPIConfig struct {
	APIKey         string `env:"NEWSAPI_KEY"             yaml:"api_key"`
	LocationFilter string `env:"NEWS_LOCATION_FILTER"    yaml:"location_filter"`
	MaxArticles    int    `env:"NEWS_MAX_ARTICLES"       yaml:"max_articles"`
}

// AnthropicConfig holds the LLM configuration.
type AnthropicConfig struct {
	APIKey string `env:"ANTHROPIC_API_KEY" yaml:"api_key"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret        string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
	TokenExpiryHours int    `yaml:"token_expiry_hours"`
}

// CacheConfig holds prediction cache configuration.
type CacheConfig struct {
	Freshness time.Duration `env:"CACHE_FRESHNESS" yaml:"freshness"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// TokenExpiry returns the configured token lifetime.
func (a AuthConfig) TokenExpiry() time.Duration {
	return time.Duration(a.TokenExpiryHours) * time.Hour
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultServiceVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = defaultDBHost
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = defaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = defaultDBUser
	}
	if cfg.Database.Database == "" {
		cfg.Database.Database = defaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = defaultDBSSLMode
	}
	if cfg.NewsAPI.LocationFilter == "" {
		cfg.NewsAPI.LocationFilter = defaultLocationFilter
	}
	if cfg.NewsAPI.MaxArticles == 0 {
		cfg.NewsAPI.MaxArticles = defaultMaxArticles
	}
	if cfg.Cache.Freshness == 0 {
		cfg.Cache.Freshness = defaultCacheFreshness
	}
	if cfg.Auth.TokenExpiryHours == 0 {
		cfg.Auth.TokenExpiryHours = defaultTokenExpiryHours
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
}
