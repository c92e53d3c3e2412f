package main

import (
	"agridata-backend/internal/config"
	"agridata-backend/internal/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const serviceName = "agridata-approvals"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "agridata-api",
		Short:         "Approval workflow API for barangay yield and crop price records",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newServeCmd(), newMigrateCmd())
	return cmd
}

// loadConfig is shared by every subcommand.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		File:        cfg.LogFile,
		ServiceName: serviceName,
	})
	return cfg, log, nil
}
