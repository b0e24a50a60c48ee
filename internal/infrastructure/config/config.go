package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full application configuration, read from the environment.
// ENV drives the session cookie attributes: "local" keeps SameSite=Lax for a
// same-host frontend, anything else switches to SameSite=None + Secure for a
// cross-site deployment.
type Config struct {
	Port        string        `env:"PORT,        default=8080"`
	Env         string        `env:"ENV,         default=local"`
	TokenSecret string        `env:"TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,   default=24h"`
	LogLevel    string        `env:"LOG_LEVEL,   default=info"`
	DefaultRole string        `env:"SETUP_ROLE_USER, default=user"`
	FrontendURL string        `env:"BASE_URL_FRONTEND, default=http://localhost:5173"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Assets AssetConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=productsapp"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type AssetConfig struct {
	BaseURL      string        `env:"ASSET_BASE_URL"`
	UploadPreset string        `env:"ASSET_UPLOAD_PRESET"`
	Timeout      time.Duration `env:"ASSET_TIMEOUT, default=15s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Local reports whether the deployment runs frontend and backend on the same
// host during development.
func (c *Config) Local() bool {
	return c.Env == "local"
}
