// Package config reads process configuration from the environment, with an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is everything the binaries read at start-up. Empty connection
// settings disable the matching integration.
type Config struct {
	Addr     string `env:"SOJOURN_ADDR" envDefault:":8080"`
	LogLevel string `env:"SOJOURN_LOG_LEVEL" envDefault:"info"`

	RedisAddr   string `env:"SOJOURN_REDIS_ADDR"`
	DatabaseURL string `env:"SOJOURN_DATABASE_URL"`

	OpenAIAPIKey  string        `env:"SOJOURN_OPENAI_API_KEY"`
	OpenAIModel   string        `env:"SOJOURN_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string        `env:"SOJOURN_OPENAI_BASE_URL"`
	QuizTimeout   time.Duration `env:"SOJOURN_QUIZ_TIMEOUT" envDefault:"8s"`

	SeatSecret   string        `env:"SOJOURN_SEAT_SECRET"`
	SeatTokenTTL time.Duration `env:"SOJOURN_SEAT_TOKEN_TTL" envDefault:"12h"`

	OTelEndpoint string `env:"SOJOURN_OTEL_ENDPOINT"`
}

// Load reads .env if present, then parses the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// FromMap parses c from an explicit environment instead of the process one.
func FromMap(environ map[string]string) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// Level returns the configured log level, falling back to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// QuizEnabled reports whether generated trials are available.
func (c Config) QuizEnabled() bool { return c.OpenAIAPIKey != "" }
