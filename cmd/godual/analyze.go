package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/deepfri"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/interpro"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/pipeline"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/report"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		chain        string
		ontologyPath string
		threshold    float64
		format       string
		noSave       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze PDB",
		Short: "Annotate a structure with both predictors and compare the results",
		Long: `Extract the sequence of a PDB file, submit it to InterProScan and the
structure to DeepFRI concurrently, and compare the two annotation sets.
Requires interpro.email and deepfri.workspace to be configured.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateForAnalysis(); err != nil {
				return err
			}
			if err := a.overrideThreshold(cmd, threshold); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, err := a.loadOntology(ontologyPath)
			if err != nil {
				return err
			}
			engine, err := a.newEngine(g)
			if err != nil {
				return err
			}

			ipr, err := interpro.NewClient(a.cfg.InterProClient(), a.logger, a.metrics)
			if err != nil {
				return err
			}
			fs := afero.NewOsFs()
			dfri, err := deepfri.NewClient(a.cfg.DeepFRIClient(), fs, a.logger, a.metrics)
			if err != nil {
				return err
			}

			pcfg := pipeline.Config{
				Engine:    engine,
				Sequence:  ipr,
				Structure: dfri,
				Threshold: a.cfg.Compare.Threshold,
				Chain:     chain,
				Fs:        fs,
				Logger:    a.logger,
			}
			if !noSave {
				s, err := a.openStore(false)
				if err != nil {
					return err
				}
				if s != nil {
					defer s.Close()
					pcfg.Saver = s
				}
			}

			analyzer, err := pipeline.NewAnalyzer(pcfg)
			if err != nil {
				return err
			}
			run, err := analyzer.Analyze(ctx, args[0])
			if err != nil {
				return err
			}

			if pcfg.Saver != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "run %s\n", run.ID)
			}
			return report.Write(cmd.OutOrStdout(), run.Result, format)
		},
	}

	cmd.Flags().StringVar(&chain, "chain", "", "extract the sequence of this chain only (default all chains)")
	cmd.Flags().StringVar(&ontologyPath, "ontology", "", "ontology file; overrides ontology.path")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum semantic similarity (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "output format: text, json, yaml")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in the history database")
	return cmd
}
