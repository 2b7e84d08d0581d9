package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=rentora"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// RateLimitConfig holds the budgets for the two limiter instances: the
// general API limiter and the stricter one on the credential endpoints.
type RateLimitConfig struct {
	Window           time.Duration `env:"RATE_LIMIT_WINDOW,    default=1m"`
	MaxRequests      int           `env:"RATE_LIMIT_MAX,       default=100"`
	LoginWindow      time.Duration `env:"LOGIN_RATE_WINDOW,    default=15m"`
	LoginMaxRequests int           `env:"LOGIN_RATE_MAX,       default=10"`
}

type CacheConfig struct {
	// AccountTTL bounds how stale a cached account state may be.
	AccountTTL time.Duration `env:"ACCOUNT_CACHE_TTL, default=5m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
