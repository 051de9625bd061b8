// Package deepfri uploads structures to a DeepFRI workspace and reads back
// its GO term predictions with their scores.
package deepfri

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/annotation"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/metrics"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/remote"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/validation"
)

// DefaultBaseURL is the public DeepFRI API.
const DefaultBaseURL = "https://beta.api.deepfri.flatironinstitute.org"

// SourceName labels annotation sets produced by this client.
const SourceName = "deepfri"

// Prediction states reported by the workspace API.
const (
	StateFinished = "finished"
	StateFailed   = "failed"
)

// ErrNoPrediction is returned when an upload response names no task.
var ErrNoPrediction = errors.New("deepfri response contains no prediction")

// Config configures a Client.
type Config struct {
	BaseURL      string
	Workspace    string
	Chain        string
	MinScore     float64
	PollInterval time.Duration
	Timeout      time.Duration
	// RawDir, when set, receives the raw prediction JSON of each task.
	RawDir string
}

// DefaultConfig returns the polling defaults of the public service.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Chain:        "A",
		PollInterval: 2 * time.Second,
		Timeout:      120 * time.Second,
	}
}

// Client talks to one DeepFRI workspace.
type Client struct {
	cfg     Config
	fs      afero.Fs
	http    *remote.Client
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewClient creates a Client that reads structures and writes raw results
// through fs.
func NewClient(cfg Config, fs afero.Fs, logger logging.Logger, reg *metrics.Registry) (*Client, error) {
	if err := validation.NewConfigValidator("deepfri").
		Required("workspace", cfg.Workspace).
		RangeFloat("min_score", cfg.MinScore, 0, 1).
		Validate(); err != nil {
		return nil, err
	}
	def := DefaultConfig()
	cfg.BaseURL = validation.DefaultOr(cfg.BaseURL, def.BaseURL)
	cfg.Chain = validation.DefaultOr(cfg.Chain, def.Chain)
	cfg.PollInterval = validation.DefaultOrDuration(cfg.PollInterval, def.PollInterval)
	cfg.Timeout = validation.DefaultOrDuration(cfg.Timeout, def.Timeout)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if fs == nil {
		fs = afero.NewOsFs()
	}

	hc := remote.NewClient(metrics.ServiceDeepFRI, logger, reg)
	hc.Headers.Set("Accept", "application/json, text/plain, */*")
	return &Client{
		cfg:     cfg,
		fs:      fs,
		http:    hc,
		logger:  hc.Logger,
		metrics: reg,
	}, nil
}

// SetRetry replaces the per-request retry policy.
func (c *Client) SetRetry(cfg remote.RetryConfig) {
	c.http.Retry = cfg
}

func (c *Client) predictionsURL() string {
	return c.cfg.BaseURL + "/workspace/" + url.PathEscape(c.cfg.Workspace) + "/predictions"
}

// Upload sends the structure at pdbPath and returns the prediction name.
func (c *Client) Upload(ctx context.Context, pdbPath string) (string, error) {
	data, err := afero.ReadFile(c.fs, pdbPath)
	if err != nil {
		return "", fmt.Errorf("read structure: %w", err)
	}

	body, err := c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		payload, contentType, err := multipartBody(filepath.Base(pdbPath), data)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.predictionsURL(), payload)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("upload structure: %w", err)
	}

	name := gjson.GetBytes(body, "predictions.0.name").String()
	if name == "" {
		return "", ErrNoPrediction
	}
	c.logger.Info("deepfri prediction submitted",
		logging.JobID(name),
		logging.Path(pdbPath))
	return name, nil
}

func multipartBody(filename string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("inputType", "structureFile"); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("tags", ""); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Fetch polls the prediction until it finishes and returns its data object.
func (c *Client) Fetch(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := remote.Poll(ctx, remote.PollConfig{Interval: c.cfg.PollInterval, Timeout: c.cfg.Timeout},
		func(ctx context.Context) (bool, error) {
			body, err := c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
				return http.NewRequestWithContext(ctx, http.MethodGet, c.predictionsURL()+"/"+url.PathEscape(name), nil)
			})
			if err != nil {
				return false, err
			}

			info := gjson.GetBytes(body, "prediction")
			if !info.IsObject() {
				info = gjson.GetBytes(body, "predictions.0")
			}
			state := info.Get("state").String()
			c.logger.Debug("deepfri prediction state",
				logging.JobID(name),
				logging.String("state", state))

			switch {
			case state == StateFailed:
				return false, fmt.Errorf("%w: deepfri prediction %s failed", remote.ErrJobFailed, name)
			case state == StateFinished && info.Get("data").IsObject():
				data = []byte(info.Get("data").Raw)
				return true, nil
			default:
				return false, nil
			}
		})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Annotate uploads the structure, waits for the prediction and returns the
// predicted GO terms with their scores.
func (c *Client) Annotate(ctx context.Context, pdbPath string) (*annotation.Set, error) {
	start := time.Now()

	name, err := c.Upload(ctx, pdbPath)
	if err != nil {
		return nil, err
	}
	data, err := c.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := c.saveRaw(name, data); err != nil {
		c.logger.Warn("could not save raw prediction", logging.JobID(name), logging.Error(err))
	}

	entries := ExtractPredictions(data, c.cfg.Chain, c.cfg.MinScore)
	if c.metrics != nil {
		c.metrics.RecordExternalJob(metrics.ServiceDeepFRI, time.Since(start))
	}
	c.logger.Info("deepfri annotation complete",
		logging.JobID(name),
		logging.Count(len(entries)),
		logging.Latency(time.Since(start)))

	return annotation.NewSet(SourceName, entries)
}

func (c *Client) saveRaw(name string, data []byte) error {
	if c.cfg.RawDir == "" {
		return nil
	}
	if err := c.fs.MkdirAll(c.cfg.RawDir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(c.fs, path.Join(c.cfg.RawDir, name+"_result.json"), data, 0o644)
}
