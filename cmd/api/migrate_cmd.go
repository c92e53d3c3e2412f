package main

import (
	repo "agridata-backend/internal/adapter/repository/mysql"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the approvals table and the record tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			gdb, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			if err := repo.AutoMigrate(gdb); err != nil {
				log.Error().Err(err).Msg("migrate failed")
				return err
			}
			log.Info().Str("driver", cfg.DBDriver).Msg("schema migrated")
			return nil
		},
	}
}
