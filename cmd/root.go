package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"mspro-labs/bean-thinking/internal/config"
	"mspro-labs/bean-thinking/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "bean-thinking",
	Short: "Find the perfect coffee based on your taste",
	Long: `Bean Thinking asks a few taste questions, scores a small catalog of
coffee shops by flavour overlap and shows the best three matches.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies its logging settings.
func loadConfig() config.AppConfig {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Config error")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg
}
