// Package config reads application configuration from the environment.
//
// An optional .env file is loaded first; values already present in the
// environment win. Fields are bound with caarlos0/env struct tags.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-mailer/internal/mailer"
	"github.com/i474232898/weather-mailer/internal/render"
)

type AppConfig struct {
	// SMTP relay. Credentials are optional for unauthenticated relays.
	SMTPHost   string `env:"SMTP_HOST"`
	SMTPPort   int    `env:"SMTP_PORT"   envDefault:"587"`
	SMTPSecure bool   `env:"SMTP_SECURE" envDefault:"false"`
	SMTPUser   string `env:"SMTP_USER"`
	SMTPPass   string `env:"SMTP_PASS"`
	FromEmail  string `env:"FROM_EMAIL"`
	FromName   string `env:"FROM_NAME"`

	// RecipientsFile is a JSON (or YAML) list of {email, cityName, nowUrl, forecastUrl}.
	RecipientsFile string `env:"RECIPIENTS_FILE" envDefault:"./users.json"`

	// Rendering.
	Locale     string `env:"LOCALE"      envDefault:"en"`
	FooterText string `env:"FOOTER_TEXT"`

	// FailFast aborts a cycle at the first failing recipient.
	FailFast bool `env:"FAIL_FAST" envDefault:"false"`

	// HTTPTimeout bounds each upstream fetch.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// ScheduleInterval controls how often the serve command runs a cycle.
	ScheduleInterval time.Duration `env:"SCHEDULE_INTERVAL" envDefault:"24h"`

	// In-memory delivery history retention.
	StoreMaxHistory int           `env:"STORE_MAX_HISTORY" envDefault:"30"`   // max records per recipient (0 = unlimited)
	StoreMaxAge     time.Duration `env:"STORE_MAX_AGE"     envDefault:"720h"` // max age of records (0 = unlimited)

	Port string `env:"PORT" envDefault:"8080"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return Parse()
}

// Parse binds the current environment without touching .env files.
func Parse() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if _, ok := render.LocaleFor(c.Locale); !ok {
		return fmt.Errorf("invalid LOCALE %q: supported values are en, he", c.Locale)
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP_PORT: %d", c.SMTPPort)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT: %s", c.HTTPTimeout)
	}
	if c.ScheduleInterval < time.Minute {
		return fmt.Errorf("invalid SCHEDULE_INTERVAL: %s (minimum 1m)", c.ScheduleInterval)
	}
	return nil
}

// SMTP returns the explicit mail transport configuration.
func (c *AppConfig) SMTP() mailer.Config {
	return mailer.Config{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Secure:   c.SMTPSecure,
		Username: c.SMTPUser,
		Password: c.SMTPPass,
		From:     c.FromEmail,
		FromName: c.FromName,
	}
}

// RenderLocale returns the configured locale. Parse has already validated it.
func (c *AppConfig) RenderLocale() render.Locale {
	l, _ := render.LocaleFor(c.Locale)
	return l
}
