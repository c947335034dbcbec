package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Books    BooksConfig    `yaml:"books"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// HTTPConfig contains REST server settings.
type HTTPConfig struct {
	Address            string `yaml:"address"`
	LoginRatePerMinute int    `yaml:"login_rate_per_minute"` // 0 disables login rate limiting
}

// GRPCConfig contains gRPC health listener settings.
type GRPCConfig struct {
	Address string `yaml:"address"` // empty disables the listener
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"`
	TokenTTL         time.Duration `yaml:"token_ttl"`
	BcryptCost       int           `yaml:"bcrypt_cost"` // 0 means bcrypt.DefaultCost
	AllowAdminSignup bool          `yaml:"allow_admin_signup"`
}

// RedisConfig selects the shared token revocation store.
type RedisConfig struct {
	Address  string `yaml:"address"` // empty keeps revocations in memory
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BooksConfig selects the book catalog backend.
type BooksConfig struct {
	Store string `yaml:"store"` // "sqlite" or "memory"
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

const devSecret = "dev-secret-change-me"

func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "todosapp.db"},
		HTTP:     HTTPConfig{Address: ":8000", LoginRatePerMinute: 30},
		GRPC:     GRPCConfig{Address: ":50051"},
		Auth:     AuthConfig{TokenTTL: 20 * time.Minute},
		Books:    BooksConfig{Store: "sqlite"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load loads configuration from defaults, the optional YAML file named by CONFIG_FILE,
// then environment variables. JWT_SECRET must end up set.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a fixed JWT secret when none is configured.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = devSecret
	}
	return cfg, nil
}

func load() (*Config, error) {
	cfg := defaults()
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// mergeFile overlays the YAML file at path; keys absent from the file keep their value.
func mergeFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.HTTP.Address = getEnv("HTTP_ADDRESS", cfg.HTTP.Address)
	cfg.GRPC.Address = getEnv("GRPC_ADDRESS", cfg.GRPC.Address)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Redis.Address = getEnv("REDIS_ADDRESS", cfg.Redis.Address)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Books.Store = getEnv("BOOK_STORE", cfg.Books.Store)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	if cfg.HTTP.LoginRatePerMinute, err = getEnvInt("LOGIN_RATE_PER_MINUTE", cfg.HTTP.LoginRatePerMinute); err != nil {
		return err
	}
	if cfg.Auth.BcryptCost, err = getEnvInt("BCRYPT_COST", cfg.Auth.BcryptCost); err != nil {
		return err
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	if cfg.Auth.TokenTTL, err = getEnvDuration("TOKEN_TTL", cfg.Auth.TokenTTL); err != nil {
		return err
	}
	if cfg.Auth.AllowAdminSignup, err = getEnvBool("ALLOW_ADMIN_SIGNUP", cfg.Auth.AllowAdminSignup); err != nil {
		return err
	}
	if cfg.Log.Development, err = getEnvBool("LOG_DEVELOPMENT", cfg.Log.Development); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return fmt.Errorf("http address is empty")
	}
	if c.Auth.TokenTTL < time.Second {
		return fmt.Errorf("token ttl must be at least 1s, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31) {
		return fmt.Errorf("bcrypt cost %d out of range [4,31]", c.Auth.BcryptCost)
	}
	if c.HTTP.LoginRatePerMinute < 0 {
		return fmt.Errorf("login rate must not be negative")
	}
	switch c.Books.Store {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown book store %q (want sqlite or memory)", c.Books.Store)
	}
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, gRPC: %s, TokenTTL: %s, Books: %s, Redis: %q, Auth: *** (masked) ***}",
		c.Database.Path, c.HTTP.Address, c.GRPC.Address, c.Auth.TokenTTL, c.Books.Store, c.Redis.Address)
}
