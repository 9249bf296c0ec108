package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/example/nova-commerce/internal/logger"
)

// Config holds every runtime setting of the NOVA services.
type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	ProjectorAddr string `env:"PROJECTOR_ADDR" envDefault:":8081"`
	WebDir        string `env:"WEB_DIR"`

	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile      string `env:"LOG_FILE"`
	LogMaxSizeMB int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`

	SeedFile string `env:"SEED_FILE"`

	JWTSecret string `env:"JWT_SECRET"`

	OrderTransitionPolicy string `env:"ORDER_TRANSITION_POLICY" envDefault:"strict"`

	NotifyEndpoint string        `env:"NOTIFY_ENDPOINT"`
	NotifyTimeout  time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"3s"`

	KafkaBrokers  []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic    string   `env:"KAFKA_TOPIC" envDefault:"nova-events"`
	ConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"1025"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"NOVA <noreply@nova.example>"`
}

const minJWTSecretLength = 32

var ErrWeakJWTSecret = errors.New("JWT_SECRET must be at least 32 characters")

// Load reads optional .env files and then the process environment.
// Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Logger maps the log settings onto a logger.Config.
func (c *Config) Logger() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	lc.File = c.LogFile
	if c.LogMaxSizeMB > 0 {
		lc.MaxSizeMB = c.LogMaxSizeMB
	}
	return lc
}

// KafkaEnabled reports whether an event feed is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// RequireJWTSecret fails when the signing secret is missing or too short.
func (c *Config) RequireJWTSecret() error {
	if len(c.JWTSecret) < minJWTSecretLength {
		return ErrWeakJWTSecret
	}
	return nil
}
