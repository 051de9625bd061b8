package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/algorithms"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/report"
)

func newNeighborsCmd(a *app) *cobra.Command {
	var (
		ontologyPath string
		hops         int
		format       string
	)

	cmd := &cobra.Command{
		Use:   "neighbors TERM",
		Short: "List GO terms within a number of hops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadOntology(ontologyPath)
			if err != nil {
				return err
			}
			source, err := resolveTerm(g, args[0])
			if err != nil {
				return err
			}
			n, err := algorithms.Neighborhood(g, source, hops)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case report.FormatJSON:
				return report.WriteJSON(out, n)
			case report.FormatYAML:
				return report.WriteYAML(out, n)
			}

			levels := make([]int, 0, len(n.ByHop))
			for hop := range n.ByHop {
				levels = append(levels, hop)
			}
			sort.Ints(levels)
			for _, hop := range levels {
				for _, id := range n.ByHop[hop] {
					name := ""
					if t, ok := g.Term(id); ok {
						name = t.Name
					}
					fmt.Fprintf(out, "%d\t%s\t%s\n", hop, id, name)
				}
			}
			fmt.Fprintf(out, "%d terms within %d hops of %s\n", n.TotalReachable, hops, source)
			return nil
		},
	}
	cmd.Flags().StringVar(&ontologyPath, "ontology", "", "ontology file; overrides ontology.path")
	cmd.Flags().IntVar(&hops, "hops", 1, "maximum distance")
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "output format: text, json, yaml")
	return cmd
}
