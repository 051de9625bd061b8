package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/algorithms"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

func newDistanceCmd(a *app) *cobra.Command {
	var (
		ontologyPath string
		showPath     bool
	)

	cmd := &cobra.Command{
		Use:   "distance TERM TERM",
		Short: "Shortest-path distance and similarity between two GO terms",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadOntology(ontologyPath)
			if err != nil {
				return err
			}
			source, err := resolveTerm(g, args[0])
			if err != nil {
				return err
			}
			target, err := resolveTerm(g, args[1])
			if err != nil {
				return err
			}
			scorer, err := a.cfg.Scorer()
			if err != nil {
				return err
			}

			d, err := algorithms.ShortestDistance(g, source, target)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s distance=%s similarity=%.4f (%s)\n",
				source, target, d, scorer.Score(d), scorer.Name())

			if showPath && d.Reachable() {
				path, err := algorithms.ShortestPath(g, source, target)
				if err != nil {
					return err
				}
				names := make([]string, len(path))
				for i, id := range path {
					names[i] = string(id)
					if t, ok := g.Term(id); ok && t.Name != "" {
						names[i] += " (" + t.Name + ")"
					}
				}
				fmt.Fprintln(out, strings.Join(names, " -> "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ontologyPath, "ontology", "", "ontology file; overrides ontology.path")
	cmd.Flags().BoolVar(&showPath, "path", false, "print one shortest path")
	return cmd
}

// resolveTerm parses s and maps alternative ids to their primary term.
func resolveTerm(g *ontology.Graph, s string) (ontology.TermID, error) {
	id, err := ontology.ParseTermID(s)
	if err != nil {
		return "", err
	}
	primary, ok := g.Resolve(id)
	if !ok {
		return "", ontology.UnknownTerm("resolve", id)
	}
	return primary, nil
}
