package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cipherhq/dirgate/internal/cli/output"
	"github.com/cipherhq/dirgate/pkg/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration",
	Long: `Load and validate the configuration file, then report the effective
settings. Exits non-zero when the configuration is invalid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		fmt.Printf("Configuration %s is valid.\n\n", path)

		pairs := [][2]string{
			{"Domain", orUnset(cfg.Gate.Domain)},
			{"Admin username", orUnset(cfg.Gate.AdminUsername)},
			{"Required groups", orAny(strings.Join(cfg.Gate.RequiredGroups(), ", "))},
			{"Excluded users", orNone(strings.Join(cfg.Gate.ExcludedUsers(), ", "))},
			{"Prompt", cfg.Gate.Prompt},
			{"Cache backend", displayBackend(cfg.Gate.Cache)},
		}

		switch cfg.Gate.Cache {
		case config.CacheFile:
			pairs = append(pairs,
				[2]string{"Cache file", cfg.FileCache.File},
				[2]string{"Cache lifespan", strconv.Itoa(cfg.FileCache.Lifespan) + "s"})
		case config.CacheNetwork:
			pairs = append(pairs,
				[2]string{"Cache server", fmt.Sprintf("%s:%d", cfg.NetworkCache.Host, cfg.NetworkCache.Port)},
				[2]string{"Cache key prefix", cfg.NetworkCache.KeyPrefix},
				[2]string{"Cache lifespan", strconv.Itoa(cfg.NetworkCache.Lifespan) + "s"})
		case config.CacheBadger:
			pairs = append(pairs,
				[2]string{"Cache path", cfg.BadgerCache.Path},
				[2]string{"Cache lifespan", strconv.Itoa(cfg.BadgerCache.Lifespan) + "s"})
		}

		pairs = append(pairs,
			[2]string{"Log level", cfg.Logging.Level},
			[2]string{"Metrics", strconv.FormatBool(cfg.Metrics.Enabled)})

		if !cfg.Gate.Configured() {
			fmt.Println("Note: directory settings are empty; every attempt will be ignored.")
			fmt.Println()
		}

		return output.KeyValueTable(os.Stdout, pairs)
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func orAny(s string) string {
	if s == "" {
		return "(any)"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
