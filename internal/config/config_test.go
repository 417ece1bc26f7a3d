package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.SMTPSecure)
	assert.Equal(t, "./users.json", cfg.RecipientsFile)
	assert.Equal(t, "en", cfg.Locale)
	assert.False(t, cfg.FailFast)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 24*time.Hour, cfg.ScheduleInterval)
	assert.Equal(t, 30, cfg.StoreMaxHistory)
	assert.Equal(t, 720*time.Hour, cfg.StoreMaxAge)
	assert.Equal(t, "8080", cfg.Port)
}

func TestParseSMTP(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("FROM_EMAIL", "weather@example.com")

	cfg, err := Parse()
	require.NoError(t, err)

	smtp := cfg.SMTP()
	assert.Equal(t, "smtp.example.com", smtp.Host)
	assert.Equal(t, 465, smtp.Port)
	assert.True(t, smtp.Secure)
	assert.Equal(t, "mailer", smtp.Username)
	assert.Equal(t, "secret", smtp.Password)
	assert.Equal(t, "weather@example.com", smtp.From)
}

func TestParseLocale(t *testing.T) {
	t.Setenv("LOCALE", "he")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "rtl", cfg.RenderLocale().Dir)

	t.Setenv("LOCALE", "fr")
	_, err = Parse()
	assert.ErrorContains(t, err, "invalid LOCALE")
}

func TestParseInvalidValues(t *testing.T) {
	t.Run("BadDuration", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "soon")
		_, err := Parse()
		assert.Error(t, err)
	})

	t.Run("BadPort", func(t *testing.T) {
		t.Setenv("SMTP_PORT", "70000")
		_, err := Parse()
		assert.ErrorContains(t, err, "SMTP_PORT")
	})

	t.Run("IntervalTooShort", func(t *testing.T) {
		t.Setenv("SCHEDULE_INTERVAL", "10s")
		_, err := Parse()
		assert.ErrorContains(t, err, "SCHEDULE_INTERVAL")
	})
}
