package redis

import "time"

type Config struct {
	// ConnectionURL looks like redis://:password@localhost:6379/0. Empty disables Redis.
	ConnectionURL string `env:"REDIS_URL"`

	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
