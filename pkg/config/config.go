// Package config loads godual settings from a YAML file, the environment
// (prefix GODUAL_, dots become underscores) and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/compare"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/deepfri"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/interpro"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/similarity"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/validation"
)

const envPrefix = "GODUAL"

// Config is the complete application configuration.
type Config struct {
	Ontology OntologyConfig `mapstructure:"ontology" yaml:"ontology"`
	Compare  CompareConfig  `mapstructure:"compare" yaml:"compare"`
	InterPro InterProConfig `mapstructure:"interpro" yaml:"interpro"`
	DeepFRI  DeepFRIConfig  `mapstructure:"deepfri" yaml:"deepfri"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

type OntologyConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	IncludePartOf bool   `mapstructure:"include_part_of" yaml:"include_part_of"`
	SkipObsolete  bool   `mapstructure:"skip_obsolete" yaml:"skip_obsolete"`
}

type CompareConfig struct {
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	Scorer    string  `mapstructure:"scorer" yaml:"scorer"`
	DecayRate float64 `mapstructure:"decay_rate" yaml:"decay_rate"`
	Workers   int     `mapstructure:"workers" yaml:"workers"`
	CacheSize int     `mapstructure:"cache_size" yaml:"cache_size"`
}

type InterProConfig struct {
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Email        string        `mapstructure:"email" yaml:"email" validate:"omitempty,email"`
	Title        string        `mapstructure:"title" yaml:"title"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type DeepFRIConfig struct {
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Workspace    string        `mapstructure:"workspace" yaml:"workspace"`
	Chain        string        `mapstructure:"chain" yaml:"chain" validate:"omitempty,len=1"`
	MinScore     float64       `mapstructure:"min_score" yaml:"min_score"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RawDir       string        `mapstructure:"raw_dir" yaml:"raw_dir"`
}

type StoreConfig struct {
	// Path of the SQLite history database; empty disables history.
	Path string `mapstructure:"path" yaml:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type MetricsConfig struct {
	// Addr serves /metrics when set, e.g. ":9090".
	Addr string `mapstructure:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	ip := interpro.DefaultConfig()
	df := deepfri.DefaultConfig()
	return &Config{
		Ontology: OntologyConfig{
			Path:          "go-basic.obo",
			IncludePartOf: ontology.DefaultLoadOptions().IncludePartOf,
		},
		Compare: CompareConfig{
			Threshold: compare.DefaultThreshold,
			Scorer:    "inverse",
			DecayRate: similarity.DefaultDecayRate,
		},
		InterPro: InterProConfig{
			BaseURL:      ip.BaseURL,
			Title:        ip.Title,
			PollInterval: ip.PollInterval,
			Timeout:      ip.Timeout,
		},
		DeepFRI: DeepFRIConfig{
			BaseURL:      df.BaseURL,
			Chain:        df.Chain,
			PollInterval: df.PollInterval,
			Timeout:      df.Timeout,
		},
		Log: LogConfig{Level: "info"},
	}
}

// setDefaults registers every key so environment variables bind even when
// no file mentions them.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("ontology.path", d.Ontology.Path)
	v.SetDefault("ontology.include_part_of", d.Ontology.IncludePartOf)
	v.SetDefault("ontology.skip_obsolete", d.Ontology.SkipObsolete)

	v.SetDefault("compare.threshold", d.Compare.Threshold)
	v.SetDefault("compare.scorer", d.Compare.Scorer)
	v.SetDefault("compare.decay_rate", d.Compare.DecayRate)
	v.SetDefault("compare.workers", d.Compare.Workers)
	v.SetDefault("compare.cache_size", d.Compare.CacheSize)

	v.SetDefault("interpro.base_url", d.InterPro.BaseURL)
	v.SetDefault("interpro.email", d.InterPro.Email)
	v.SetDefault("interpro.title", d.InterPro.Title)
	v.SetDefault("interpro.poll_interval", d.InterPro.PollInterval)
	v.SetDefault("interpro.timeout", d.InterPro.Timeout)

	v.SetDefault("deepfri.base_url", d.DeepFRI.BaseURL)
	v.SetDefault("deepfri.workspace", d.DeepFRI.Workspace)
	v.SetDefault("deepfri.chain", d.DeepFRI.Chain)
	v.SetDefault("deepfri.min_score", d.DeepFRI.MinScore)
	v.SetDefault("deepfri.poll_interval", d.DeepFRI.PollInterval)
	v.SetDefault("deepfri.timeout", d.DeepFRI.Timeout)
	v.SetDefault("deepfri.raw_dir", d.DeepFRI.RawDir)

	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// Load reads configuration. path may be empty, in which case godual.yaml is
// looked up in the working directory and missing files are not an error.
// A .env file in the working directory is applied first without overriding
// variables already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("godual")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field rules and cross-field constraints.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("config").
		Struct(c).
		RangeFloat("compare.threshold", c.Compare.Threshold, 0, 1).
		OneOf("compare.scorer", c.Compare.Scorer, similarity.Names()).
		When(c.Compare.Scorer == similarity.NameExponential, func(cv *validation.ConfigValidator) {
			cv.PositiveFloat("compare.decay_rate", c.Compare.DecayRate)
		}).
		NonNegative("compare.workers", c.Compare.Workers).
		NonNegative("compare.cache_size", c.Compare.CacheSize).
		RangeFloat("deepfri.min_score", c.DeepFRI.MinScore, 0, 1).
		OneOf("log.level", strings.ToLower(c.Log.Level), []string{"debug", "info", "warn", "warning", "error"}).
		MinDuration("interpro.poll_interval", c.InterPro.PollInterval, time.Second).
		MinDuration("interpro.timeout", c.InterPro.Timeout, c.InterPro.PollInterval).
		MinDuration("deepfri.poll_interval", c.DeepFRI.PollInterval, 100*time.Millisecond).
		MinDuration("deepfri.timeout", c.DeepFRI.Timeout, c.DeepFRI.PollInterval).
		Validate()
}

// ValidateForAnalysis adds the requirements of the remote services.
func (c *Config) ValidateForAnalysis() error {
	return validation.NewConfigValidator("config").
		Required("interpro.email", c.InterPro.Email).
		Required("deepfri.workspace", c.DeepFRI.Workspace).
		Validate()
}

// Scorer builds the configured distance scorer.
func (c *Config) Scorer() (similarity.DistanceScorer, error) {
	if c.Compare.Scorer == similarity.NameExponential {
		decay, err := similarity.NewExponentialDecay(c.Compare.DecayRate)
		if err != nil {
			return nil, err
		}
		return decay, nil
	}
	return similarity.ByName(c.Compare.Scorer)
}

// LoadOptions returns the ontology loader settings.
func (c *Config) LoadOptions() ontology.LoadOptions {
	return ontology.LoadOptions{
		IncludePartOf: c.Ontology.IncludePartOf,
		SkipObsolete:  c.Ontology.SkipObsolete,
	}
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// InterProClient returns the client settings for InterProScan.
func (c *Config) InterProClient() interpro.Config {
	return interpro.Config{
		BaseURL:      c.InterPro.BaseURL,
		Email:        c.InterPro.Email,
		Title:        c.InterPro.Title,
		PollInterval: c.InterPro.PollInterval,
		Timeout:      c.InterPro.Timeout,
	}
}

// DeepFRIClient returns the client settings for DeepFRI.
func (c *Config) DeepFRIClient() deepfri.Config {
	return deepfri.Config{
		BaseURL:      c.DeepFRI.BaseURL,
		Workspace:    c.DeepFRI.Workspace,
		Chain:        c.DeepFRI.Chain,
		MinScore:     c.DeepFRI.MinScore,
		PollInterval: c.DeepFRI.PollInterval,
		Timeout:      c.DeepFRI.Timeout,
		RawDir:       c.DeepFRI.RawDir,
	}
}

// WriteYAML writes c as a YAML document, suitable as a starting config file.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// WriteDefault writes the default configuration to path, refusing to
// overwrite an existing file.
func WriteDefault(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := Default().WriteYAML(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
