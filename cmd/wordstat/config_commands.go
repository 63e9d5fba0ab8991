package main

import (
	"fmt"

	"github.com/bastiangx/wordstat/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetActiveConfigPath(ctx.configPath))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:         "rebuild",
		Short:       "Overwrite the config file with defaults",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.RebuildConfigFile(*ctx.configFlag)
			if err != nil {
				return fmt.Errorf("rebuild config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	})

	return configCmd
}
