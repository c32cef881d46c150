package main

import (
	"log/slog"

	"github.com/citynect/property-backend/config"
	"github.com/citynect/property-backend/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var flagEnvFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "property-backend",
		Short:         "Property listing API server",
		Long:          "Serves the property listing API and runs the account and catalog maintenance sweeps.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCmd(),
		newSweepCmd(),
	)
	return root
}

// loadSettings reads the dotenv file, then configuration, then installs the
// default logger.
func loadSettings() (config.Settings, error) {
	envErr := godotenv.Load(flagEnvFile)

	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	logging.Setup(cfg.DevMode)
	if envErr != nil {
		slog.Debug("no dotenv file loaded", "path", flagEnvFile, "error", envErr)
	}
	return cfg, nil
}
