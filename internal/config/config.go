package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string `env:"APP_ENV" env-default:"development"`
	AppPort string `env:"APP_PORT" env-default:"8080"`

	BackendURL     string        `env:"BACKEND_API_URL" env-required:"true"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" env-default:"10s"`

	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	PaymentPublishableKey string `env:"PAYMENT_PUBLISHABLE_KEY"`
	ImageCloudName        string `env:"IMAGE_CLOUD_NAME"`
	ImageUploadPreset     string `env:"IMAGE_UPLOAD_PRESET"`

	// SessionTTL bounds the checkout relay, LocalCartTTL the anonymous cart.
	SessionTTL       time.Duration `env:"SESSION_TTL" env-default:"12h"`
	LocalCartTTL     time.Duration `env:"LOCAL_CART_TTL" env-default:"720h"`
	IdentityCacheTTL time.Duration `env:"IDENTITY_CACHE_TTL" env-default:"1m"`

	CORSOrigin   string `env:"CORS_ORIGIN" env-default:"http://localhost:3000"`
	CookieSecure bool   `env:"COOKIE_SECURE" env-default:"false"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
