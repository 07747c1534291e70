package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL, default=24h"`

	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Razorpay RazorpayConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clinic"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type RazorpayConfig struct {
	KeyID     string        `env:"RAZORPAY_KEY_ID"`
	KeySecret string        `env:"RAZORPAY_KEY_SECRET"`
	Timeout   time.Duration `env:"RAZORPAY_TIMEOUT, default=10s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsDev reports whether the service runs in a development environment.
// Controls error verbosity and the Secure flag on the auth cookie.
func (c *Config) IsDev() bool {
	return c.Env != "production"
}
