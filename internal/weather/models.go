package weather

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Recipient is one entry of the externally supplied recipient list.
// The field names match the users.json shape used by the delivery job.
type Recipient struct {
	Email       string `json:"email" yaml:"email" validate:"required,email"`
	CityName    string `json:"cityName" yaml:"cityName" validate:"required"`
	NowURL      string `json:"nowUrl" yaml:"nowUrl" validate:"required,url"`
	ForecastURL string `json:"forecastUrl" yaml:"forecastUrl" validate:"required,url"`
}

// Key returns a canonical string key for indexing this recipient in stores.
func (r Recipient) Key() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

// CurrentConditions is the normalized "now" reading. Values keep whatever type
// the upstream used (string, json.Number, float64, ...); absent fields are
// simply missing and get their placeholder at render time.
type CurrentConditions map[string]any

// Value returns the raw value for key, or nil when absent.
func (c CurrentConditions) Value(key string) any {
	if c == nil {
		return nil
	}
	return c[key]
}

// ForecastInfo is the forecast payload. Only a handful of fields are read
// (lang0, lang1, day_name, date, TempLow, TempHigh, TempNight, humDay); the rest
// is carried along untouched.
type ForecastInfo map[string]any

// NewForecastInfo accepts a decoded forecast payload. Anything that is not a
// JSON object yields an empty ForecastInfo.
func NewForecastInfo(raw any) ForecastInfo {
	switch v := raw.(type) {
	case map[string]any:
		return ForecastInfo(v)
	case ForecastInfo:
		return v
	default:
		return ForecastInfo{}
	}
}

// Value returns the raw value for key, or nil when absent.
func (f ForecastInfo) Value(key string) any {
	if f == nil {
		return nil
	}
	return f[key]
}

// Text returns the value for key as text, or "" when absent or null.
func (f ForecastInfo) Text(key string) string {
	return textOf(f.Value(key))
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// DeliveryStatus is the outcome of one recipient's processing step.
type DeliveryStatus string

const (
	StatusSent         DeliveryStatus = "sent"
	StatusFetchFailed  DeliveryStatus = "fetch_failed"
	StatusRenderFailed DeliveryStatus = "render_failed"
	StatusSendFailed   DeliveryStatus = "send_failed"
	StatusSkipped      DeliveryStatus = "skipped"
)

// DeliveryRecord is the audit entry kept for each processed recipient.
type DeliveryRecord struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	City      string         `json:"city"`
	Subject   string         `json:"subject,omitempty"`
	Badge     string         `json:"badge,omitempty"`
	Status    DeliveryStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"` // always UTC
}

// Result pairs a recipient with what happened to it during a cycle.
type Result struct {
	Recipient Recipient
	Record    DeliveryRecord
	Err       error
}

// OK reports whether the notification was delivered.
func (r Result) OK() bool {
	return r.Err == nil && r.Record.Status == StatusSent
}
