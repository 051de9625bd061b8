package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/compare"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/config"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/metrics"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/store"
)

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

// app carries state shared by all subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	server  *http.Server
	started time.Time
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "godual",
		Short: "Compare GO annotations from InterProScan and DeepFRI",
		Long: `godual cross-validates Gene Ontology annotations produced by a
sequence-based predictor (InterProScan) and a structure-based predictor
(DeepFRI). Exact overlap is reported together with semantic pairs matched by
shortest-path distance in the GO graph.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ./godual.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newCompareCmd(a),
		newAnalyzeCmd(a),
		newDistanceCmd(a),
		newNeighborsCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.started = time.Now()
	if cmd.Annotations[skipConfig] != "" {
		a.logger = logging.NewNopLogger()
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.NewJSONLogger(a.stderr, cfg.LogLevel())
	a.metrics = metrics.NewRegistry()

	if cfg.Metrics.Addr != "" {
		a.serveMetrics(cfg.Metrics.Addr)
	}
	return nil
}

func (a *app) serveMetrics(addr string) {
	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", logging.String("addr", addr), logging.Error(err))
		}
	}()
	a.logger.Info("serving metrics", logging.String("addr", addr))
}

func (a *app) teardown() error {
	if a.metrics != nil {
		a.metrics.UpdateSystemMetrics(a.started)
	}
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// overrideThreshold applies --threshold when given and re-validates the
// configuration before any expensive work starts.
func (a *app) overrideThreshold(cmd *cobra.Command, threshold float64) error {
	if !cmd.Flags().Changed("threshold") {
		return nil
	}
	a.cfg.Compare.Threshold = threshold
	return a.cfg.Validate()
}

// loadOntology reads the ontology at path, or the configured one when path
// is empty.
func (a *app) loadOntology(path string) (*ontology.Graph, error) {
	if path == "" {
		path = a.cfg.Ontology.Path
	}
	start := time.Now()
	g, err := ontology.NewOsLoader(a.logger).Load(path, a.cfg.LoadOptions())
	if err != nil {
		return nil, err
	}
	a.metrics.RecordOntologyLoad(g.NodeCount(), g.EdgeCount(), time.Since(start))
	return g, nil
}

func (a *app) newEngine(g *ontology.Graph) (*compare.Engine, error) {
	scorer, err := a.cfg.Scorer()
	if err != nil {
		return nil, err
	}
	return compare.NewEngine(g, compare.Options{
		Scorer:    scorer,
		Workers:   a.cfg.Compare.Workers,
		CacheSize: a.cfg.Compare.CacheSize,
		Logger:    a.logger,
		Metrics:   a.metrics,
	})
}

// openStore opens the history database. It returns nil without error when
// history is disabled and required is false.
func (a *app) openStore(required bool) (*store.SQLiteStore, error) {
	if a.cfg.Store.Path == "" {
		if required {
			return nil, errors.New("no history database configured (set store.path or GODUAL_STORE_PATH)")
		}
		return nil, nil
	}
	s, err := store.Open(a.cfg.Store.Path, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return s, nil
}
