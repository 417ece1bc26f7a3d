package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-mailer/internal/mailer"
	"github.com/i474232898/weather-mailer/internal/render"
	"github.com/i474232898/weather-mailer/internal/store"
	"github.com/i474232898/weather-mailer/internal/weather"
)

// fakeSource serves canned payloads keyed by URL.
type fakeSource struct {
	mu       sync.Mutex
	payloads map[string]any
	errs     map[string]error
	calls    []string
}

func (f *fakeSource) FetchJSON(ctx context.Context, url string) (any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	return f.payloads[url], nil
}

func recipient(email, city, id string) weather.Recipient {
	return weather.Recipient{
		Email:       email,
		CityName:    city,
		NowURL:      "https://wx.example.com/now/" + id,
		ForecastURL: "https://wx.example.com/fc/" + id,
	}
}

func newFixture() (*fakeSource, *mailer.MemorySender, *store.MemoryStore) {
	src := &fakeSource{
		payloads: map[string]any{
			"https://wx.example.com/now/1": []any{
				map[string]any{"time": "12:00"},
				map[string]any{"temp": 4.7},
				map[string]any{"hum": "80"},
			},
			"https://wx.example.com/fc/1": map[string]any{"lang1": "Light rain", "TempLow": 2.0, "TempHigh": 9.0},
			"https://wx.example.com/now/2": map[string]any{"temp": "24"},
			"https://wx.example.com/fc/2":  map[string]any{"lang0": "Sunny"},
		},
		errs: map[string]error{},
	}
	return src, mailer.NewMemorySender(), store.NewMemoryStore(10, 0)
}

func TestRunSendsToEveryRecipient(t *testing.T) {
	src, sender, st := newFixture()
	svc := NewService(src, render.NewRenderer(render.English), sender, st, Options{})

	list := []weather.Recipient{
		recipient("a@example.com", "Tel Aviv", "1"),
		recipient("b@example.com", "Eilat", "2"),
	}
	summary, err := svc.Run(context.Background(), list)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Sent)
	assert.Zero(t, summary.Failed)

	msgs := sender.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a@example.com", msgs[0].To)
	assert.Equal(t, "Forecast — Tel Aviv", msgs[0].Subject)
	assert.Contains(t, msgs[0].HTML, "4.7°C")
	assert.Contains(t, msgs[0].HTML, "Umbrella recommended ☔")
	assert.Contains(t, msgs[0].Text, "Light rain")
	assert.Equal(t, "b@example.com", msgs[1].To)
	assert.Contains(t, msgs[1].HTML, "Sunny ☀️")

	latest, err := svc.GetLatest("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, weather.StatusSent, latest.Status)
	assert.Equal(t, "Umbrella recommended ☔", latest.Badge)
	assert.NotEmpty(t, latest.ID)
}

func TestRunIsolatesFailures(t *testing.T) {
	src, sender, st := newFixture()
	src.errs["https://wx.example.com/fc/1"] = errors.New("503 Service Unavailable")
	svc := NewService(src, render.NewRenderer(render.English), sender, st, Options{})

	summary, err := svc.Run(context.Background(), []weather.Recipient{
		recipient("a@example.com", "Tel Aviv", "1"),
		recipient("b@example.com", "Eilat", "2"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrUpstreamFetch)

	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.Failed)

	msgs := sender.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "b@example.com", msgs[0].To)

	rec, err := st.GetLatest("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, weather.StatusFetchFailed, rec.Status)
	assert.Contains(t, rec.Error, "503")
}

func TestRunFailFastSkipsRemaining(t *testing.T) {
	src, sender, st := newFixture()
	src.errs["https://wx.example.com/now/1"] = errors.New("connection refused")
	svc := NewService(src, render.NewRenderer(render.English), sender, st, Options{FailFast: true})

	summary, err := svc.Run(context.Background(), []weather.Recipient{
		recipient("a@example.com", "Tel Aviv", "1"),
		recipient("b@example.com", "Eilat", "2"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrUpstreamFetch)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, sender.Messages())

	rec, err := st.GetLatest("b@example.com")
	require.NoError(t, err)
	assert.Equal(t, weather.StatusSkipped, rec.Status)
}

func TestNotifySendFailure(t *testing.T) {
	src, sender, st := newFixture()
	relayErr := errors.New("535 authentication failed")
	sender.FailFor = map[string]error{"a@example.com": relayErr}
	svc := NewService(src, render.NewRenderer(render.English), sender, st, Options{})

	res := svc.Notify(context.Background(), recipient("a@example.com", "Tel Aviv", "1"))
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, weather.ErrSend)
	assert.ErrorIs(t, res.Err, relayErr)
	assert.Equal(t, weather.StatusSendFailed, res.Record.Status)
	assert.Equal(t, "Forecast — Tel Aviv", res.Record.Subject)
	assert.False(t, res.OK())
}

func TestRunWithoutRecipients(t *testing.T) {
	src, sender, st := newFixture()
	svc := NewService(src, render.NewRenderer(render.English), sender, st, Options{})

	_, err := svc.Run(context.Background(), nil)
	assert.ErrorIs(t, err, weather.ErrNoRecipients)
}

func TestRunCancelledContextSkipsEverything(t *testing.T) {
	src, sender, st := newFixture()
	svc := NewService(src, render.NewRenderer(render.English), sender, st, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := svc.Run(ctx, []weather.Recipient{
		recipient("a@example.com", "Tel Aviv", "1"),
		recipient("b@example.com", "Eilat", "2"),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, summary.Skipped)
	assert.Empty(t, src.calls)
}

// barrierSource only answers once both fetches of a recipient are in flight.
type barrierSource struct {
	arrived sync.WaitGroup
}

func (b *barrierSource) FetchJSON(ctx context.Context, url string) (any, error) {
	b.arrived.Done()
	done := make(chan struct{})
	go func() {
		b.arrived.Wait()
		close(done)
	}()
	select {
	case <-done:
		return map[string]any{}, nil
	case <-time.After(2 * time.Second):
		return nil, errors.New("fetches were not issued concurrently")
	}
}

func TestPrepareFetchesConcurrently(t *testing.T) {
	src := &barrierSource{}
	src.arrived.Add(2)
	svc := NewService(src, render.NewRenderer(render.English), mailer.NewMemorySender(), nil, Options{})

	doc, err := svc.Prepare(context.Background(), recipient("a@example.com", "Tel Aviv", "1"))
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "Tel Aviv")
}

func TestPrepareToleratesOddPayloads(t *testing.T) {
	src, _, _ := newFixture()
	src.payloads["https://wx.example.com/now/1"] = "not a list"
	src.payloads["https://wx.example.com/fc/1"] = []any{"not", "an", "object"}
	svc := NewService(src, render.NewRenderer(render.English), mailer.NewMemorySender(), nil, Options{})

	doc, err := svc.Prepare(context.Background(), recipient("a@example.com", "Tel Aviv", "1"))
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "—°C")
	assert.Equal(t, render.BadgeDaily, doc.Badge)
}

func TestRunRejectsOverlappingCycles(t *testing.T) {
	src, sender, st := newFixture()
	svc := NewService(src, render.NewRenderer(render.English), sender, st, Options{})

	svc.running.Lock()
	_, err := svc.Run(context.Background(), []weather.Recipient{recipient("a@example.com", "Tel Aviv", "1")})
	svc.running.Unlock()
	assert.ErrorIs(t, err, ErrBusy)
}
