package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryDSN string `env:"SENTRY_DSN"`
		StateDir  string `env:"APP_STATE_DIR" env-default:"./.lumigram"`
	}
	API struct {
		BaseURL        string        `env:"API_BASE_URL" env-default:"https://api.lumigram.app"`
		RequestTimeout time.Duration `env:"API_REQUEST_TIMEOUT" env-default:"15s"`
		PageSize       int           `env:"API_PAGE_SIZE" env-default:"10"`
	}
	Account struct {
		Identifier string `env:"ACCOUNT_IDENTIFIER"`
		Password   string `env:"ACCOUNT_PASSWORD"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Sync struct {
		FeedMinutes  int `env:"SYNC_FEED_MINUTES" env-default:"15"`
		StoryMinutes int `env:"SYNC_STORY_MINUTES" env-default:"20"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN builds the Postgres connection string for the history archive.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}
