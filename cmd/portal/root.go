package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"recruitportal/internal/config"
	"recruitportal/internal/observability"
)

type cliState struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	rt := &cliState{}
	cmd := &cobra.Command{
		Use:           "portal",
		Short:         "Recruitment application portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.logger = observability.NewLogger(cfg.LogLevel)
			slog.SetDefault(rt.logger)
			return nil
		},
	}
	cmd.AddCommand(newServeCmd(rt), newMigrateCmd(rt), newImportCmd(rt))
	return cmd
}
