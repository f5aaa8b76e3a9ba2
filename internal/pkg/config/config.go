package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	MenuFile  string        `env:"MENU_FILE"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Resend    ResendConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backoffice"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,         default=localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB,           default=0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE,    default=20"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT, default=5s"`
	IOTimeout    time.Duration `env:"REDIS_IO_TIMEOUT,   default=500ms"`
	ViewCacheTTL time.Duration `env:"VIEW_CACHE_TTL,     default=5m"`
}

type RateLimitConfig struct {
	ContactLimit  int           `env:"CONTACT_RATE_LIMIT,  default=5"`
	ContactWindow time.Duration `env:"CONTACT_RATE_WINDOW, default=1h"`
	// LoginLimit is the number of sign-in attempts per IP and minute.
	LoginLimit int `env:"LOGIN_RATE_LIMIT, default=10"`
}

type ResendConfig struct {
	APIKey  string   `env:"RESEND_API_KEY"`
	From    string   `env:"RESEND_FROM"`
	To      []string `env:"RESEND_TO"`
	BaseURL string   `env:"RESEND_BASE_URL, default=https://api.resend.com"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads a .env file when present and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
