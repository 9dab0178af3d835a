// Package commands implements the CLI commands for the dirgate operator
// tool.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cipherhq/dirgate/internal/logger"
	"github.com/cipherhq/dirgate/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configPath string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dirgate",
	Short: "Directory-backed authentication gate",
	Long: `dirgate decides login attempts against a remote directory service,
with an optional local credential cache for offline operation.

This tool manages the dirgate configuration and cache; the authentication
pipeline itself runs inside the embedding host.

Use "dirgate [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		fmt.Sprintf("Path to config file (default: %s)", config.DefaultConfigPath()))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and validates the configuration, then applies its
// logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
