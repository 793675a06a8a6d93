package geo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"carpool/internal/config"
)

// Client talks to the external geocoding (Nominatim) and routing
// (OpenRouteService) services. All outbound calls go through fetch, which
// applies the per-call timeout and bounded retry policy.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	nominatimBase  string
	orsBase        string
	orsKey         string
	geocodeTimeout time.Duration
	routeTimeout   time.Duration
	fetchTimeout   time.Duration
	attempts       int
	retryDelay     time.Duration
}

func NewClient(cfg config.Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient:     &http.Client{},
		logger:         logger,
		nominatimBase:  cfg.NominatimBaseURL,
		orsBase:        cfg.ORSBaseURL,
		orsKey:         cfg.ORSAPIKey,
		geocodeTimeout: cfg.GeocodeTimeout,
		routeTimeout:   cfg.RouteTimeout,
		fetchTimeout:   cfg.FetchTimeout,
		attempts:       cfg.FetchRetries,
		retryDelay:     time.Second,
	}
}

// requestFn rebuilds the request for each attempt so bodies can be re-read.
type requestFn func(ctx context.Context) (*http.Request, error)

// fetch runs build+do up to c.attempts times, sleeping a fixed delay between
// attempts. Only failures on the allow-list (timeouts, connection reset, DNS
// failure, 5xx) are retried. The caller owns closing the returned body.
func (c *Client) fetch(ctx context.Context, timeout time.Duration, build requestFn) (*http.Response, error) {
	if timeout <= 0 {
		timeout = c.fetchTimeout
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		req, err := build(attemptCtx)
		if err != nil {
			cancel()
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			cancel()
			lastErr = err
			if !retryableError(err) {
				return nil, err
			}
			c.logger.Warn("upstream fetch retry", "url", req.URL.Host, "attempt", attempt, "error", err)
			continue
		}

		if resp.StatusCode >= 500 {
			drainAndClose(resp.Body)
			cancel()
			lastErr = &StatusError{Status: resp.StatusCode}
			c.logger.Warn("upstream fetch retry", "url", req.URL.Host, "attempt", attempt, "status", resp.StatusCode)
			continue
		}

		// cancel when the body is drained, not before
		resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}
	return nil, lastErr
}

// StatusError marks a non-2xx upstream response.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return http.StatusText(e.Status)
}

func retryableError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED)
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
