package main

import (
	"github.com/bastiangx/wordstat/internal/cli"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var debugFlag bool
	var noColorFlag bool

	ctx := newCommandContext(&configFlag, &debugFlag, &noColorFlag)

	rootCmd := &cobra.Command{
		Use:           AppName + " [books...]",
		Short:         "Word frequency statistics and vocabulary comparison for books",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.setupLogging()
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			shelf, err := ctx.loadShelf(cmd.Context(), args)
			if err != nil {
				return err
			}
			render := ctx.renderer(cmd.OutOrStdout())
			return cli.NewInputHandler(shelf, ctx.config, cmd.InOrStdin(), render, ctx.bookLog).Start()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Toggle debug mode")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	for _, cmd := range newReportCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
