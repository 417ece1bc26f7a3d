package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-mailer/internal/weather"
)

// HTTPSource implements weather.Source for plain JSON endpoints.
// Each upstream host gets its own circuit breaker so a dead host stops being
// hammered for every recipient that points at it.
type HTTPSource struct {
	httpCfg HTTPClientConfig

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewHTTPSource builds an HTTPSource on top of client.
func NewHTTPSource(client *http.Client, breaker BreakerConfig) *HTTPSource {
	return &HTTPSource{
		httpCfg: HTTPClientConfig{
			Client:  client,
			Breaker: breaker,
		},
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// FetchJSON performs a GET against rawURL and decodes the body. Numbers are
// kept as json.Number so that "80" and 80 both survive unchanged.
func (s *HTTPSource) FetchJSON(ctx context.Context, rawURL string) (any, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", weather.ErrUpstreamFetch, rawURL)
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, s.httpCfg, s.breaker(u.Host), buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", weather.ErrUpstreamFetch, rawURL, err)
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %w", weather.ErrUpstreamFetch, rawURL, err)
	}
	return payload, nil
}

func (s *HTTPSource) breaker(host string) *gobreaker.CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	cb, ok := s.breakers[host]
	if !ok {
		cb = newBreaker(host, s.httpCfg.Breaker)
		s.breakers[host] = cb
	}
	return cb
}
