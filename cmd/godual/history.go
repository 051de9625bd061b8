package main

import (
	"github.com/spf13/cobra"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/report"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded comparison runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(true)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			switch format {
			case report.FormatJSON:
				return report.WriteJSON(cmd.OutOrStdout(), runs)
			case report.FormatYAML:
				return report.WriteYAML(cmd.OutOrStdout(), runs)
			default:
				return report.RenderHistory(cmd.OutOrStdout(), runs)
			}
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "output format: text, json, yaml")

	cmd.AddCommand(newHistoryShowCmd(a), newHistoryDeleteCmd(a))
	return cmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print the full result of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(true)
			if err != nil {
				return err
			}
			defer s.Close()

			run, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			switch format {
			case report.FormatJSON:
				return report.WriteJSON(cmd.OutOrStdout(), run)
			case report.FormatYAML:
				return report.WriteYAML(cmd.OutOrStdout(), run)
			default:
				return report.Write(cmd.OutOrStdout(), run.Result, format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "output format: text, json, yaml")
	return cmd
}

func newHistoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(true)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Delete(cmd.Context(), args[0])
		},
	}
}
