package main

import (
	"errors"

	"github.com/spf13/cobra"

	"recruitportal/internal/config"
)

func newMigrateCmd(rt *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch rt.cfg.DBDriver {
			case config.DriverPostgres:
				_, closeStore, err := openStore(cmd.Context(), rt.cfg, rt.logger, storeOptions{migrate: true})
				if err != nil {
					return err
				}
				closeStore()
				return nil
			case config.DriverMongo:
				// index creation is the only schema step for mongo
				_, closeStore, err := openStore(cmd.Context(), rt.cfg, rt.logger, storeOptions{})
				if err != nil {
					return err
				}
				closeStore()
				return nil
			default:
				return errors.New("migrate needs a persistent DB_DRIVER")
			}
		},
	}
}
