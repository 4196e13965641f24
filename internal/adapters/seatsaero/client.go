// internal/adapters/seatsaero/client.go
package seatsaero

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"milheiro/internal/adapters/observability"
	"milheiro/internal/domain"
)

const (
	DefaultBaseURL = "https://seats.aero/search"
	DefaultTimeout = 30 * time.Second
)

// Client fetches the single server-rendered results page.
// It is configured once and safe for concurrent use.
type Client struct {
	base     string
	defaults domain.ScrapeDefaults
	http     *resty.Client
}

func New(base string, timeout time.Duration, defaults domain.ScrapeDefaults) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetLogger(restyLogger{l: log.Logger.With().Str("component", "seatsaero").Logger()})
	return &Client{base: base, defaults: defaults, http: hc}
}

func (c *Client) FetchPages(ctx context.Context, q domain.SearchQuery) ([]string, error) {
	html, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return []string{html}, nil
}

func (c *Client) fetch(ctx context.Context, q domain.SearchQuery) (string, error) {
	start := time.Now()
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(SearchParams(q, c.defaults)).
		Get(c.base)
	if err != nil {
		observability.ObserveExternal("seatsaero", "search", 0, time.Since(start))
		if isTimeout(err) {
			log.Warn().Err(err).Str("origin", q.Origin()).Str("destination", q.Destination()).Msg("seats.aero timed out")
			return "", domain.ErrUpstreamTimeout
		}
		return "", fmt.Errorf("seatsaero: request failed: %w", err)
	}
	observability.ObserveExternal("seatsaero", "search", res.StatusCode(), time.Since(start))

	if !res.IsSuccess() {
		log.Warn().
			Int("status", res.StatusCode()).
			Str("origin", q.Origin()).
			Str("destination", q.Destination()).
			Msg("seats.aero returned an error status")
		return "", &domain.UpstreamStatusError{StatusCode: res.StatusCode()}
	}

	log.Debug().
		Int("bytes", len(res.Body())).
		Dur("duration", time.Since(start)).
		Msg("seats.aero page fetched")
	return res.String(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// restyLogger routes resty's own diagnostics into zerolog.
type restyLogger struct{ l zerolog.Logger }

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error().Msgf(format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warn().Msgf(format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debug().Msgf(format, v...) }
