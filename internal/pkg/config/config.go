package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,         default=5000"`
	Env         string        `env:"ENV,          default=development"`
	JWTSecret   string        `env:"JWT_SECRET,   required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=168h"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	CORSOrigins []string      `env:"CORS_ORIGINS, default=*"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Recovery RecoveryConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=brandscape"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,        default=localhost:6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,          default=0"`
	CatalogTTL     time.Duration `env:"CATALOG_CACHE_TTL, default=10m"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,   default=24h"`
}

// RecoveryConfig drives the sweeper that finalizes campaigns left pending.
type RecoveryConfig struct {
	Schedule string        `env:"RECOVERY_SCHEDULE, default=@every 1m"`
	Grace    time.Duration `env:"RECOVERY_GRACE,    default=2m"`
	Workers  int           `env:"RECOVERY_WORKERS,  default=4"`
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. Variables already set win over .env values.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
