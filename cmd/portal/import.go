package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recruitportal/internal/app"
	"recruitportal/internal/importer"
)

func newImportCmd(rt *cliState) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Bulk import applications from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			repo, closeStore, err := openStore(cmd.Context(), rt.cfg, rt.logger, storeOptions{migrate: rt.cfg.AutoMigrate})
			if err != nil {
				return err
			}
			defer closeStore()

			profile := importer.ProfileStandard
			if strict {
				profile = importer.ProfileStrict
			}
			report, err := app.NewApplicationService(repo, nil, rt.logger).Import(cmd.Context(), data, profile)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Check department, year and role against the closed lists and require motivation and experience")
	return cmd
}
