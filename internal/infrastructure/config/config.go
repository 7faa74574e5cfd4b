package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret       string `env:"JWT_SECRET"`
	AccessTokenTTL  string `env:"JWT_EXPIRATION,    default=15m"`
	RefreshTokenTTL string `env:"REFRESH_TOKEN_TTL, default=7d"`
	BcryptCost      int    `env:"BCRYPT_COST,       default=10"`
	AuditWorkers    int    `env:"AUDIT_WORKERS,     default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	Seed  SeedConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SeedConfig drives the one-time first-admin bootstrap. When Email is empty
// no seeding happens.
type SeedConfig struct {
	Email    string `env:"SEED_ADMIN_EMAIL"`
	Password string `env:"SEED_ADMIN_PASSWORD"`
	Name     string `env:"SEED_ADMIN_NAME, default=Administrator"`
	Age      int    `env:"SEED_ADMIN_AGE,  default=30"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// AccessTTL returns the parsed access-token lifetime (default 15m).
func (c *Config) AccessTTL() time.Duration {
	return ParseTTL(c.AccessTokenTTL, 15*time.Minute)
}

// RefreshTTL returns the parsed refresh-token lifetime (default 7d).
func (c *Config) RefreshTTL() time.Duration {
	return ParseTTL(c.RefreshTokenTTL, 7*24*time.Hour)
}

// ParseTTL parses a duration string with s/m/h/d suffixes ("30s", "15m",
// "12h", "7d"). Anything time.ParseDuration accepts also works. Malformed
// input falls back to the provided default rather than failing the workflow.
func ParseTTL(s string, fallback time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days <= 0 {
			return fallback
		}
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
