package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/metrics"
)

// DefaultMaxResponseSize caps response bodies; InterProScan results for long
// sequences run to a few megabytes.
const DefaultMaxResponseSize = 64 << 20

// RetryConfig holds retry configuration for single requests.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts per request.
	MaxAttempts int

	// BackoffBase is the initial backoff duration.
	BackoffBase time.Duration

	// MaxBackoff caps the maximum backoff duration.
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns retry defaults for annotation services.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BackoffBase: time.Second,
		MaxBackoff:  15 * time.Second,
	}
}

// RequestFunc builds a fresh request for every attempt so bodies can be
// re-read.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Client executes requests against one remote service.
type Client struct {
	Service string
	HTTP    *http.Client
	Retry   RetryConfig
	Headers http.Header
	Logger  logging.Logger
	Metrics *metrics.Registry

	// MaxResponseSize bounds accepted bodies; larger responses fail with
	// ErrResponseTooLarge. Zero selects DefaultMaxResponseSize.
	MaxResponseSize int64
}

// NewClient creates a Client with default retries and a 60s request timeout.
func NewClient(service string, logger logging.Logger, reg *metrics.Registry) *Client {
	return &Client{
		Service: service,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		Retry:   DefaultRetryConfig(),
		Headers: http.Header{},
		Logger:  logging.OrNop(logger).With(logging.Component(service)),
		Metrics: reg,
	}
}

// Do sends the request built by build and returns the response body of a 2xx
// response. Transient failures are retried with exponential backoff.
func (c *Client) Do(ctx context.Context, build RequestFunc) ([]byte, error) {
	var body []byte
	op := func() error {
		b, err := c.doOnce(ctx, build)
		if err != nil {
			if IsTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		body = b
		return nil
	}

	err := backoff.RetryNotify(op, c.backOff(ctx), func(err error, wait time.Duration) {
		c.Logger.Warn("request failed, retrying",
			logging.Error(err),
			logging.Duration("wait", wait))
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) backOff(ctx context.Context) backoff.BackOff {
	cfg := c.Retry
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.BackoffBase
	exp.MaxInterval = cfg.MaxBackoff
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(cfg.MaxAttempts-1)), ctx)
}

func (c *Client) doOnce(ctx context.Context, build RequestFunc) ([]byte, error) {
	req, err := build(ctx)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}
	for k, vs := range c.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	c.Logger.Debug("sending request",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.record(metrics.StatusError)
		if ctx.Err() != nil {
			return nil, NewFatalError(ctx.Err())
		}
		// Network errors are transient
		return nil, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	limit := c.MaxResponseSize
	if limit <= 0 {
		limit = DefaultMaxResponseSize
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		c.record(metrics.StatusError)
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}
	if int64(len(body)) > limit {
		c.record(metrics.StatusError)
		return nil, NewFatalError(fmt.Errorf("%w: %s %s exceeds %d bytes",
			ErrResponseTooLarge, req.Method, req.URL.Redacted(), limit))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(metrics.StatusError)
		return nil, classifyHTTPError(c.Service, resp.StatusCode, body)
	}
	c.record(metrics.StatusSuccess)
	return body, nil
}

func (c *Client) record(status string) {
	if c.Metrics != nil {
		c.Metrics.RecordExternalRequest(c.Service, status)
	}
}
