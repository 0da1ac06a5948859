package cli

import (
	"log/slog"
	"os"

	"clc-quiz-service/internal/config"
	"clc-quiz-service/internal/logging"
	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:           "clc-quiz",
		Short:         "Vocabulary quiz engine and leaderboard service for the CLC portal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewSeedCmd(&configPath))
	cmd.AddCommand(NewPlayCmd(&configPath))
	return cmd
}

// loadRuntime reads the config and builds the logger every command shares.
func loadRuntime(path string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	return cfg, logger, nil
}
