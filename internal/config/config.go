// Package config declares the service's environment configuration.
package config

import (
	"time"

	"github.com/dmitrymomot/trustnotify/internal/api"
	"github.com/dmitrymomot/trustnotify/internal/store"
	pkgconfig "github.com/dmitrymomot/trustnotify/pkg/config"
	"github.com/dmitrymomot/trustnotify/pkg/email"
	"github.com/dmitrymomot/trustnotify/pkg/redis"
	"github.com/dmitrymomot/trustnotify/pkg/sms"
)

// TokenConfig is the part of Config needed to issue bearer tokens.
type TokenConfig struct {
	AppName   string        `env:"APP_NAME" envDefault:"trustnotify"`
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

type Config struct {
	TokenConfig

	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	SigningSecret  string        `env:"SIGNING_SECRET,required,notEmpty"`
	AttemptTimeout time.Duration `env:"DISPATCH_ATTEMPT_TIMEOUT" envDefault:"10s"`

	InboxBufferSize int `env:"INBOX_BUFFER_SIZE" envDefault:"16"`
	InboxMaxUsers   int `env:"INBOX_MAX_USERS" envDefault:"10000"`

	HTTP  api.ServerConfig
	CORS  api.CORSConfig
	Store store.Config
	Email email.Config
	SMS   sms.Config
	Redis redis.Config
}

// Load reads Config from the environment, after the default .env file.
func Load(opts ...pkgconfig.Option) (Config, error) {
	return pkgconfig.Load[Config](opts...)
}

// LoadToken reads only TokenConfig, so the token command runs without the
// signing secret or provider settings.
func LoadToken(opts ...pkgconfig.Option) (TokenConfig, error) {
	return pkgconfig.Load[TokenConfig](opts...)
}
