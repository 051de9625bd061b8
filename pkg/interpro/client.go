// Package interpro submits protein sequences to the EBI InterProScan 5 REST
// service and extracts the GO terms of the matched signatures.
package interpro

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/annotation"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/metrics"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/remote"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/validation"
)

// DefaultBaseURL is the public InterProScan 5 endpoint.
const DefaultBaseURL = "https://www.ebi.ac.uk/Tools/services/rest/iprscan5"

// SourceName labels annotation sets produced by this client.
const SourceName = "interpro"

// ErrEmptySequence is returned when Submit is called without residues.
var ErrEmptySequence = errors.New("sequence is empty")

// Status is the job state reported by the service.
type Status string

// Job states. Anything else is treated as still running.
const (
	StatusQueued   Status = "QUEUED"
	StatusRunning  Status = "RUNNING"
	StatusFinished Status = "FINISHED"
	StatusError    Status = "ERROR"
	StatusFailure  Status = "FAILURE"
	StatusNotFound Status = "NOT_FOUND"
)

// Failed reports whether the job will never finish.
func (s Status) Failed() bool {
	return s == StatusError || s == StatusFailure || s == StatusNotFound
}

// Config configures a Client.
type Config struct {
	BaseURL      string
	Email        string
	Title        string
	PollInterval time.Duration
	Timeout      time.Duration
}

// DefaultConfig returns the polling defaults of the public service.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Title:        "godual",
		PollInterval: 20 * time.Second,
		Timeout:      30 * time.Minute,
	}
}

// Client talks to one InterProScan deployment.
type Client struct {
	cfg     Config
	http    *remote.Client
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewClient creates a Client. EBI requires a contact email on submission.
func NewClient(cfg Config, logger logging.Logger, reg *metrics.Registry) (*Client, error) {
	if cfg.Email == "" {
		return nil, errors.New("interpro: email is required")
	}
	def := DefaultConfig()
	cfg.BaseURL = validation.DefaultOr(cfg.BaseURL, def.BaseURL)
	cfg.Title = validation.DefaultOr(cfg.Title, def.Title)
	cfg.PollInterval = validation.DefaultOrDuration(cfg.PollInterval, def.PollInterval)
	cfg.Timeout = validation.DefaultOrDuration(cfg.Timeout, def.Timeout)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	hc := remote.NewClient(metrics.ServiceInterPro, logger, reg)
	hc.Headers.Set("Accept", "text/plain, application/json")
	return &Client{
		cfg:     cfg,
		http:    hc,
		logger:  hc.Logger,
		metrics: reg,
	}, nil
}

// SetHTTPClient replaces the transport, mainly for tests.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.http.HTTP = hc
}

// SetRetry replaces the per-request retry policy.
func (c *Client) SetRetry(cfg remote.RetryConfig) {
	c.http.Retry = cfg
}

// Submit starts a job for sequence and returns its id.
func (c *Client) Submit(ctx context.Context, sequence string) (string, error) {
	if strings.TrimSpace(sequence) == "" {
		return "", ErrEmptySequence
	}
	form := url.Values{
		"email":    {c.cfg.Email},
		"title":    {c.cfg.Title},
		"sequence": {sequence},
	}
	body, err := c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/run/", strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("submit interproscan job: %w", err)
	}
	jobID := strings.TrimSpace(string(body))
	if jobID == "" {
		return "", errors.New("submit interproscan job: empty job id")
	}
	c.logger.Info("interproscan job submitted",
		logging.JobID(jobID),
		logging.Int("sequence_length", len(sequence)))
	return jobID, nil
}

// Status returns the current state of a job.
func (c *Client) Status(ctx context.Context, jobID string) (Status, error) {
	body, err := c.http.Do(ctx, c.get("/status/"+url.PathEscape(jobID)))
	if err != nil {
		return "", fmt.Errorf("interproscan status %s: %w", jobID, err)
	}
	return Status(strings.TrimSpace(string(body))), nil
}

// Wait polls until the job finishes, fails or the configured timeout passes.
func (c *Client) Wait(ctx context.Context, jobID string) error {
	return remote.Poll(ctx, remote.PollConfig{Interval: c.cfg.PollInterval, Timeout: c.cfg.Timeout},
		func(ctx context.Context) (bool, error) {
			status, err := c.Status(ctx, jobID)
			if err != nil {
				return false, err
			}
			c.logger.Debug("interproscan job status",
				logging.JobID(jobID),
				logging.String("status", string(status)))
			switch {
			case status == StatusFinished:
				return true, nil
			case status.Failed():
				return false, fmt.Errorf("%w: interproscan job %s is %s", remote.ErrJobFailed, jobID, status)
			default:
				return false, nil
			}
		})
}

// Result fetches the JSON result document of a finished job.
func (c *Client) Result(ctx context.Context, jobID string) ([]byte, error) {
	body, err := c.http.Do(ctx, c.get("/result/"+url.PathEscape(jobID)+"/json"))
	if err != nil {
		return nil, fmt.Errorf("interproscan result %s: %w", jobID, err)
	}
	return body, nil
}

// Annotate runs a full job for sequence and returns the GO terms found. The
// service reports no confidence, so the set carries none.
func (c *Client) Annotate(ctx context.Context, sequence string) (*annotation.Set, error) {
	start := time.Now()

	jobID, err := c.Submit(ctx, sequence)
	if err != nil {
		return nil, err
	}
	if err := c.Wait(ctx, jobID); err != nil {
		return nil, err
	}
	raw, err := c.Result(ctx, jobID)
	if err != nil {
		return nil, err
	}
	terms, err := ExtractGOTerms(raw)
	if err != nil {
		return nil, fmt.Errorf("interproscan job %s: %w", jobID, err)
	}

	if c.metrics != nil {
		c.metrics.RecordExternalJob(metrics.ServiceInterPro, time.Since(start))
	}
	c.logger.Info("interproscan annotation complete",
		logging.JobID(jobID),
		logging.Count(len(terms)),
		logging.Latency(time.Since(start)))

	return annotation.FromTerms(SourceName, terms...)
}

func (c *Client) get(path string) remote.RequestFunc {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	}
}
