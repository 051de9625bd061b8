package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/similarity"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.7, cfg.Compare.Threshold)
	assert.Equal(t, "inverse", cfg.Compare.Scorer)
	assert.True(t, cfg.Ontology.IncludePartOf)
	assert.Equal(t, "A", cfg.DeepFRI.Chain)
}

func TestLoad_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "godual.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ontology:
  path: /data/go-basic.obo
  include_part_of: false
compare:
  threshold: 0.6
  scorer: exponential
  decay_rate: 0.25
  workers: 4
interpro:
  email: someone@example.org
  poll_interval: 5s
deepfri:
  workspace: ws-123
store:
  path: /var/lib/godual/runs.db
`), 0o644))

	t.Setenv("GODUAL_COMPARE_THRESHOLD", "0.55")
	t.Setenv("GODUAL_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/go-basic.obo", cfg.Ontology.Path)
	assert.False(t, cfg.Ontology.IncludePartOf)
	assert.Equal(t, 0.55, cfg.Compare.Threshold, "environment overrides file")
	assert.Equal(t, 4, cfg.Compare.Workers)
	assert.Equal(t, 5*time.Second, cfg.InterPro.PollInterval)
	assert.Equal(t, 30*time.Minute, cfg.InterPro.Timeout, "unset keys keep defaults")
	assert.Equal(t, "/var/lib/godual/runs.db", cfg.Store.Path)
	assert.Equal(t, logging.DebugLevel, cfg.LogLevel())
	require.NoError(t, cfg.ValidateForAnalysis())

	scorer, err := cfg.Scorer()
	require.NoError(t, err)
	assert.Equal(t, similarity.ExponentialDecay{Rate: 0.25}, scorer)

	assert.Equal(t, "someone@example.org", cfg.InterProClient().Email)
	assert.Equal(t, "ws-123", cfg.DeepFRIClient().Workspace)
	assert.False(t, cfg.LoadOptions().IncludePartOf)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("GODUAL_DEEPFRI_WORKSPACE=from-dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("GODUAL_DEEPFRI_WORKSPACE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.DeepFRI.Workspace)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"threshold above one", func(c *Config) { c.Compare.Threshold = 1.5 }, "compare.threshold"},
		{"threshold nan", func(c *Config) { c.Compare.Threshold = math.NaN() }, "compare.threshold"},
		{"exponential without rate", func(c *Config) {
			c.Compare.Scorer = "exponential"
			c.Compare.DecayRate = 0
		}, "compare.decay_rate"},
		{"negative cache", func(c *Config) { c.Compare.CacheSize = -5 }, "compare.cache_size"},
		{"min score", func(c *Config) { c.DeepFRI.MinScore = -0.1 }, "deepfri.min_score"},
		{"unknown scorer", func(c *Config) { c.Compare.Scorer = "cosine" }, "compare.scorer"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"negative workers", func(c *Config) { c.Compare.Workers = -1 }, "compare.workers"},
		{"bad url", func(c *Config) { c.InterPro.BaseURL = "not a url" }, "BaseURL"},
		{"timeout shorter than poll", func(c *Config) { c.DeepFRI.Timeout = time.Second }, "deepfri.timeout"},
		{"long chain", func(c *Config) { c.DeepFRI.Chain = "AB" }, "Chain"},
		{"metrics addr", func(c *Config) { c.Metrics.Addr = "nope" }, "Addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_DecayRateIgnoredForInverse(t *testing.T) {
	cfg := Default()
	cfg.Compare.DecayRate = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidateForAnalysis(t *testing.T) {
	err := Default().ValidateForAnalysis()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interpro.email")
	assert.Contains(t, err.Error(), "deepfri.workspace")
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "godual.yaml")
	require.NoError(t, WriteDefault(path))
	assert.Error(t, WriteDefault(path), "existing file is not overwritten")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().WriteYAML(&buf))

	var back Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *Default(), back)
}
