package main

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/annotation"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/report"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/store"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		fileA, fileB string
		ontologyPath string
		threshold    float64
		format       string
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "compare --a FILE --b FILE",
		Short: "Compare two annotation files",
		Long: `Compare two annotation files (JSON, YAML or text, one "GO:NNNNNNN [score]"
per line) against the GO graph.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.overrideThreshold(cmd, threshold); err != nil {
				return err
			}
			started := time.Now().UTC()

			fs := afero.NewOsFs()
			setA, err := annotation.ReadFile(fs, fileA)
			if err != nil {
				return err
			}
			setB, err := annotation.ReadFile(fs, fileB)
			if err != nil {
				return err
			}

			g, err := a.loadOntology(ontologyPath)
			if err != nil {
				return err
			}
			engine, err := a.newEngine(g)
			if err != nil {
				return err
			}
			result, err := engine.Compare(setA, setB, a.cfg.Compare.Threshold)
			if err != nil {
				return err
			}

			if save {
				s, err := a.openStore(true)
				if err != nil {
					return err
				}
				defer s.Close()
				run := &store.Run{StartedAt: started, Result: result}
				if err := s.Save(cmd.Context(), run); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", run.ID)
			}

			return report.Write(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVar(&fileA, "a", "", "first annotation file")
	cmd.Flags().StringVar(&fileB, "b", "", "second annotation file")
	cmd.Flags().StringVar(&ontologyPath, "ontology", "", "ontology file (.obo, .nt, optionally .gz); overrides ontology.path")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum semantic similarity (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "output format: text, json, yaml")
	cmd.Flags().BoolVar(&save, "save", false, "record the result in the history database")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}
