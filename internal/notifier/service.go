// Package notifier runs the per-recipient fetch, render and send pipeline.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-mailer/internal/mailer"
	"github.com/i474232898/weather-mailer/internal/metrics"
	"github.com/i474232898/weather-mailer/internal/render"
	"github.com/i474232898/weather-mailer/internal/weather"
)

// ErrBusy is returned when a cycle is requested while another one is running.
var ErrBusy = errors.New("a delivery cycle is already running")

// Options tunes cycle behaviour.
type Options struct {
	// FailFast stops the cycle at the first failing recipient; the remaining
	// recipients are recorded as skipped. By default every recipient is
	// processed and failures are reported together at the end.
	FailFast bool
}

// Service orchestrates fetching, rendering and sending for each recipient.
type Service struct {
	source   weather.Source
	renderer *render.Renderer
	sender   mailer.Sender
	store    weather.Store
	opts     Options

	running sync.Mutex
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(source weather.Source, renderer *render.Renderer, sender mailer.Sender, store weather.Store, opts Options) *Service {
	return &Service{
		source:   source,
		renderer: renderer,
		sender:   sender,
		store:    store,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Prepare fetches both payloads for r concurrently and renders the notification.
func (s *Service) Prepare(ctx context.Context, r weather.Recipient) (render.Document, error) {
	var (
		wg            sync.WaitGroup
		nowRaw, fcRaw any
		nowErr, fcErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		nowRaw, nowErr = s.source.FetchJSON(ctx, r.NowURL)
	}()
	go func() {
		defer wg.Done()
		fcRaw, fcErr = s.source.FetchJSON(ctx, r.ForecastURL)
	}()
	wg.Wait()

	if err := errors.Join(nowErr, fcErr); err != nil {
		if !errors.Is(err, weather.ErrUpstreamFetch) {
			err = fmt.Errorf("%w: %w", weather.ErrUpstreamFetch, err)
		}
		return render.Document{}, err
	}

	now := weather.MergeKeyValueList(nowRaw)
	fc := weather.NewForecastInfo(fcRaw)

	start := time.Now()
	doc, err := s.renderer.Render(r.CityName, now, fc)
	metrics.RenderSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return render.Document{}, err
	}
	return doc, nil
}

// Notify processes one recipient end to end and records the outcome.
func (s *Service) Notify(ctx context.Context, r weather.Recipient) weather.Result {
	res := weather.Result{
		Recipient: r,
		Record: weather.DeliveryRecord{
			ID:    uuid.NewString(),
			Email: r.Email,
			City:  r.CityName,
		},
	}

	doc, err := s.Prepare(ctx, r)
	switch {
	case err == nil:
		res.Record.Subject = doc.Subject
		res.Record.Badge = doc.BadgeLabel
		err = s.sender.Send(ctx, mailer.Message{
			To:      r.Email,
			Subject: doc.Subject,
			HTML:    doc.HTML,
			Text:    doc.Text,
		})
		if err != nil {
			res.Err = fmt.Errorf("%w: %s: %w", weather.ErrSend, r.Email, err)
			res.Record.Status = weather.StatusSendFailed
		} else {
			res.Record.Status = weather.StatusSent
			metrics.Badges.WithLabelValues(doc.Badge.String()).Inc()
			log.Printf("Sent to %s", r.Email)
		}
	case errors.Is(err, weather.ErrUpstreamFetch):
		res.Err = err
		res.Record.Status = weather.StatusFetchFailed
	default:
		res.Err = err
		res.Record.Status = weather.StatusRenderFailed
	}

	if res.Err != nil {
		res.Record.Error = res.Err.Error()
		log.Printf("ERROR: delivery to %s (%s) failed: %v", r.Email, r.CityName, res.Err)
	}

	s.record(&res)
	return res
}

// Run processes recipients sequentially in list order and returns the cycle
// summary together with the joined errors of every failed recipient.
func (s *Service) Run(ctx context.Context, recipients []weather.Recipient) (weather.Summary, error) {
	if len(recipients) == 0 {
		return weather.Summary{}, weather.ErrNoRecipients
	}
	if !s.running.TryLock() {
		return weather.Summary{}, ErrBusy
	}
	defer s.running.Unlock()

	started := s.now()
	log.Printf("INFO: delivery cycle started for %d recipients", len(recipients))

	var (
		results []weather.Result
		errs    []error
	)

	for i, r := range recipients {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			results = append(results, s.skipAll(recipients[i:])...)
			break
		}

		res := s.Notify(ctx, r)
		results = append(results, res)
		if res.Err == nil {
			continue
		}

		errs = append(errs, res.Err)
		if s.opts.FailFast {
			results = append(results, s.skipAll(recipients[i+1:])...)
			break
		}
	}

	summary := weather.Summarize(started, results)
	metrics.CycleSeconds.Observe(s.now().Sub(started).Seconds())
	metrics.LastCycleFailures.Set(float64(summary.Failed))
	log.Printf("INFO: delivery cycle finished: %d sent, %d failed, %d skipped",
		summary.Sent, summary.Failed, summary.Skipped)

	return summary, errors.Join(errs...)
}

func (s *Service) skipAll(recipients []weather.Recipient) []weather.Result {
	out := make([]weather.Result, 0, len(recipients))
	for _, r := range recipients {
		res := weather.Result{
			Recipient: r,
			Record: weather.DeliveryRecord{
				ID:     uuid.NewString(),
				Email:  r.Email,
				City:   r.CityName,
				Status: weather.StatusSkipped,
			},
		}
		s.record(&res)
		out = append(out, res)
	}
	return out
}

func (s *Service) record(res *weather.Result) {
	res.Record.Timestamp = s.now()
	if s.store != nil {
		s.store.Save(res.Record)
	}
	metrics.Deliveries.WithLabelValues(string(res.Record.Status)).Inc()
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(email string) (weather.DeliveryRecord, error) {
	return s.store.GetLatest(email)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(email string, from, to time.Time) ([]weather.DeliveryRecord, error) {
	return s.store.GetRange(email, from, to)
}
