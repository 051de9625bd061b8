package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "init [PATH]",
		Short:       "Write the default configuration to PATH (default godual.yaml)",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "godual.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cfg.WriteYAML(cmd.OutOrStdout())
		},
	})
	return cmd
}
