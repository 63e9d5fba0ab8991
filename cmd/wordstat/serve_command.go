package main

import (
	"os"

	"github.com/bastiangx/wordstat/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [books...]",
		Short: "Serve msgpack requests on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug("spawning IPC")
			shelf, err := ctx.loadShelf(cmd.Context(), args)
			if err != nil {
				return err
			}
			srv := server.NewServer(shelf, ctx.config, cmd.InOrStdin(), cmd.OutOrStdout())
			showStartupInfo(ctx.configPath, shelf.Len())
			return srv.Start(cmd.Context())
		},
	}
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(configPath string, books int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", configPath)
	log.Infof("books: %d", books)
	log.Info("status: ready")
}
