package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

type CatalogDriver string

const (
	CatalogDriverSQLite   CatalogDriver = "sqlite"
	CatalogDriverPostgres CatalogDriver = "postgres"
)

type PasswordHash string

const (
	PasswordHashSHA256 PasswordHash = "sha256"
	PasswordHashBcrypt PasswordHash = "bcrypt"
)

// Config holds the configuration for the decksmith server and its dependencies.
type Config struct {
	// Listen is the address the decksmith server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// SessionKey is the key used to sign session cookies.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// SecureCookies marks the session cookie as secure (https only).
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	// DataDir holds users.json and the per-user deck files.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// Auth holds the credential configuration.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
	// Catalog holds the card catalog database configuration.
	Catalog *CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	// Cache holds the catalog cache configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Search holds card search limits.
	Search *SearchConfig `yaml:"search" mapstructure:"search"`
}

// AuthConfig holds the credential configuration.
type AuthConfig struct {
	// PasswordHash selects the password hashing scheme ("sha256" or "bcrypt").
	PasswordHash PasswordHash `yaml:"password_hash" mapstructure:"password_hash"`
	// BcryptCost is the bcrypt work factor, only used with bcrypt.
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
}

// CatalogConfig holds the card catalog database configuration.
type CatalogConfig struct {
	// Driver is either "sqlite" or "postgres".
	Driver CatalogDriver `yaml:"driver" mapstructure:"driver"`
	// Path is the sqlite database file.
	Path string `yaml:"path" mapstructure:"path"`
	// DSN is the postgres connection string.
	DSN string `yaml:"dsn" mapstructure:"dsn"`
	// Language restricts name searches to printings in this language.
	Language string `yaml:"language" mapstructure:"language"`
	// RefreshSchedule is the cron schedule for refreshing the cached catalog.
	RefreshSchedule string `yaml:"refresh_schedule" mapstructure:"refresh_schedule"`
}

// CacheConfig holds the configuration for the catalog cache.
type CacheConfig struct {
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the address of the redis server if using redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	// TTL is how long cached catalog lookups live.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// SearchConfig holds card search limits.
type SearchConfig struct {
	// MaxResults caps the number of card search hits returned.
	MaxResults int `yaml:"max_results" mapstructure:"max_results"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	bindNestedEnv(v)
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("DECKSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.decksmith")
		v.AddConfigPath("/etc/decksmith")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with the DECKSMITH_ prefix override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:3003")
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 172800) // 48 hours
	v.SetDefault("secure_cookies", false)
	v.SetDefault("data_dir", "./data")

	// Auth defaults
	v.SetDefault("auth.password_hash", PasswordHashSHA256)
	v.SetDefault("auth.bcrypt_cost", 10)

	// Catalog defaults
	v.SetDefault("catalog.driver", CatalogDriverSQLite)
	v.SetDefault("catalog.path", "./data/cards.db")
	v.SetDefault("catalog.language", "English")
	v.SetDefault("catalog.refresh_schedule", "0 */6 * * *") // Every 6 hours

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "6h")

	// Search defaults
	v.SetDefault("search.max_results", 200)
}

// the auto env function from viper only binds keys it already knows about.
// Keys without a default have to be bound manually.
func bindNestedEnv(v *viper.Viper) {
	v.MustBindEnv("catalog.dsn", "DECKSMITH_CATALOG_DSN")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing decksmith config")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}

	if c.Auth == nil {
		c.Auth = &AuthConfig{PasswordHash: PasswordHashSHA256}
	}
	switch c.Auth.PasswordHash {
	case PasswordHashSHA256, PasswordHashBcrypt:
	default:
		return fmt.Errorf("unsupported password hash %q (use sha256 or bcrypt)", c.Auth.PasswordHash)
	}

	if c.Catalog == nil {
		return fmt.Errorf("missing catalog config")
	}
	switch c.Catalog.Driver {
	case CatalogDriverSQLite:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when using sqlite")
		}
	case CatalogDriverPostgres:
		if c.Catalog.DSN == "" {
			return fmt.Errorf("catalog DSN is required when using postgres")
		}
	default:
		return fmt.Errorf("unsupported catalog driver %q (use sqlite or postgres)", c.Catalog.Driver)
	}

	// Basic validation for cron format (5 fields)
	if c.Catalog.RefreshSchedule != "" && len(strings.Fields(c.Catalog.RefreshSchedule)) != 5 {
		return fmt.Errorf("catalog refresh schedule must be a valid cron expression with 5 fields (minute hour day month weekday)")
	}

	if c.Cache != nil {
		if c.Cache.Type == "" {
			return fmt.Errorf("cache type is required when cache is enabled")
		}
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory, // Default to in-memory cache if not enabled
		}
	}

	if c.Search == nil {
		c.Search = &SearchConfig{}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)
	c.DataDir = strings.TrimSuffix(strings.TrimSpace(c.DataDir), "/")

	if c.Auth != nil {
		c.Auth.PasswordHash = PasswordHash(strings.ToLower(strings.TrimSpace(string(c.Auth.PasswordHash))))
	}

	if c.Catalog != nil {
		c.Catalog.Driver = CatalogDriver(strings.ToLower(strings.TrimSpace(string(c.Catalog.Driver))))
		c.Catalog.Language = strings.TrimSpace(c.Catalog.Language)
	}
}

// GetMaxResults returns the search result cap with proper defaults.
func (c *Config) GetMaxResults() int {
	if c == nil || c.Search == nil || c.Search.MaxResults <= 0 {
		return 200
	}
	return c.Search.MaxResults
}

// GetCacheTTL returns the catalog cache TTL with proper defaults.
func (c *CacheConfig) GetCacheTTL() time.Duration {
	if c == nil || c.TTL <= 0 {
		return 6 * time.Hour
	}
	return c.TTL
}

// GetBcryptCost returns the bcrypt cost with proper defaults.
func (c *AuthConfig) GetBcryptCost() int {
	if c == nil || c.BcryptCost <= 0 {
		return 10
	}
	return c.BcryptCost
}
