package weather

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	started := time.Date(2026, 1, 2, 6, 0, 0, 0, time.UTC)
	results := []Result{
		{Record: DeliveryRecord{Email: "a@example.com", Status: StatusSent, Badge: "Sunny", Timestamp: started.Add(time.Second)}},
		{Record: DeliveryRecord{Email: "b@example.com", Status: StatusFetchFailed, Timestamp: started.Add(2 * time.Second)}, Err: ErrUpstreamFetch},
		{Record: DeliveryRecord{Email: "c@example.com", Status: StatusSent, Badge: "Umbrella", Timestamp: started.Add(3 * time.Second)}},
		{Record: DeliveryRecord{Email: "d@example.com", Status: StatusSent, Badge: "Umbrella", Timestamp: started.Add(4 * time.Second)}},
		{Record: DeliveryRecord{Email: "e@example.com", Status: StatusSkipped}},
	}

	s := Summarize(started, results)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Sent)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, "Umbrella", s.TopBadge)
	assert.Equal(t, started, s.StartedAt)
	assert.Equal(t, started.Add(4*time.Second), s.FinishedAt)
	assert.Len(t, s.Records, 5)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(time.Now(), nil)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.TopBadge)
	assert.False(t, s.FinishedAt.IsZero())
}

func TestResultOK(t *testing.T) {
	assert.True(t, Result{Record: DeliveryRecord{Status: StatusSent}}.OK())
	assert.False(t, Result{Record: DeliveryRecord{Status: StatusSent}, Err: errors.New("x")}.OK())
	assert.False(t, Result{Record: DeliveryRecord{Status: StatusSendFailed}}.OK())
}

func TestNewForecastInfo(t *testing.T) {
	fc := NewForecastInfo(map[string]any{"lang1": "Light rain", "TempLow": 2.0})
	assert.Equal(t, "Light rain", fc.Text("lang1"))
	assert.Equal(t, "2", fc.Text("TempLow"))
	assert.Equal(t, "", fc.Text("lang0"))

	assert.Empty(t, NewForecastInfo([]any{1, 2}))
	assert.Empty(t, NewForecastInfo(nil))
}

func TestRecipientKey(t *testing.T) {
	r := Recipient{Email: "  Someone@Example.COM "}
	assert.Equal(t, "someone@example.com", r.Key())
}
