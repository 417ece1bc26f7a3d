package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig controls the per-host circuit breaker.
type BreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// ConsecutiveFailures trips the breaker once reached (0 = gobreaker default of 5).
	ConsecutiveFailures uint32
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Breaker BreakerConfig
}

// DefaultBreakerConfig mirrors the settings used for every upstream host.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	}
}

var (
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// statusError carries the upstream status line and a short body excerpt.
type statusError struct {
	kind    error
	status  string
	excerpt string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.kind, e.status, e.excerpt)
}

func (e *statusError) Unwrap() error { return e.kind }

const bodyExcerptLimit = 200

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
	}
	if cfg.ConsecutiveFailures > 0 {
		limit := cfg.ConsecutiveFailures
		settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= limit
		}
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// doRequest executes a single HTTP request through the circuit breaker.
// There are no retries: a failed request is reported to the caller as-is.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}

	// Ensure the request obeys context cancellation.
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			defer resp.Body.Close()
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, bodyExcerptLimit))
			kind := errUnexpected
			if resp.StatusCode >= 500 {
				kind = errServerError
			}
			return nil, &statusError{
				kind:    kind,
				status:  resp.Status,
				excerpt: string(excerpt),
			}
		}

		return resp, nil
	})
	if err != nil {
		// If circuit is open, say so rather than surfacing gobreaker's sentinel.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
