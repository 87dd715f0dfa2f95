package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port  string `env:"PORT" envDefault:"5000"`
	Debug bool   `env:"DEBUG" envDefault:"false"`
	// Mail relay. EmailAddress is both the From address and the SMTP login.
	EmailAddress  string        `env:"EMAIL_ADDRESS" envDefault:"contact@example.com"`
	EmailPassword string        `env:"EMAIL_PASSWORD"`
	OwnerEmail    string        `env:"OWNER_EMAIL" envDefault:"contact@example.com"`
	SMTPHost      string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort      int           `env:"SMTP_PORT" envDefault:"465"`
	SMTPTimeout   time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
	// CORS
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5000,http://localhost:3000,https://*.vercel.app"`
	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; deployed environments set real variables.
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
		return nil, fmt.Errorf("SMTP_PORT out of range: %d", cfg.SMTPPort)
	}
	if cfg.SMTPTimeout <= 0 {
		return nil, fmt.Errorf("SMTP_TIMEOUT must be positive, got %s", cfg.SMTPTimeout)
	}
	return cfg, nil
}

// Warnings lists settings that leave the service degraded but running.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.EmailPassword == "" {
		warnings = append(warnings, "EMAIL_PASSWORD not set. Email notifications will not work.")
	}
	if len(c.AllowedOrigins) == 0 {
		warnings = append(warnings, "CORS_ALLOWED_ORIGINS is empty. Browsers will be blocked from every origin.")
	}
	return warnings
}

// ListenAddr is the address passed to http.Server.
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}
