package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genetis-rhino/hornevo/apis/config/v1alpha1"
	"github.com/genetis-rhino/hornevo/apis/config/validation"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/fitness"
)

func newValidateCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a run configuration without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := v1alpha1.LoadFile(configPath)
			if err != nil {
				return err
			}
			if err := validation.ValidateRunConfiguration(cfg, fitness.Names); err != nil {
				return fmt.Errorf("%s: %w", configPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", configPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the run configuration (YAML or JSON)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
