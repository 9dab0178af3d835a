package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cipherhq/dirgate/internal/cli/output"
	"github.com/cipherhq/dirgate/internal/cli/prompt"
	"github.com/cipherhq/dirgate/pkg/config"
	"github.com/cipherhq/dirgate/pkg/credcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the credential cache",
}

var cacheClearForce bool

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached credentials",
	Long: `Wipe the configured cache backend.

Every user falls back to remote verification on the next attempt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cache, err := credcache.New(cfg)
		if err != nil {
			return err
		}
		if cache == nil {
			fmt.Println("Caching is disabled; nothing to clear.")
			return nil
		}
		if closer, ok := cache.(interface{ Close() error }); ok {
			defer closer.Close()
		}

		if !cacheClearForce {
			ok, err := prompt.Confirm(
				fmt.Sprintf("Clear the %s cache backend?", cfg.Gate.Cache), false)
			if err != nil {
				if prompt.IsAborted(err) {
					fmt.Println("Aborted.")
					return nil
				}
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := cache.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached credential records",
	Long: `Render the records of the file cache backend as a table.

Only the file backend supports listing; the network and badger backends
do not expose enumeration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cfg.Gate.Cache != config.CacheFile {
			return fmt.Errorf("cache listing requires the file backend (configured: %s)",
				displayBackend(cfg.Gate.Cache))
		}

		cache := credcache.NewFileCache(cfg.FileCache.File, cfg.FileCache.Lifespan)
		entries, err := cache.Entries()
		if err != nil {
			return fmt.Errorf("failed to read cache file: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("Cache is empty.")
			return nil
		}

		now := time.Now()
		table := output.NewTableData("User", "Created", "Expires", "State")
		for _, rec := range entries {
			state := "valid"
			if rec.Expired(cache.Lifespan(), now) {
				state = "expired"
			}
			table.AddRow(
				rec.Username,
				rec.Created.Format(time.DateTime),
				rec.Created.Add(cache.Lifespan()).Format(time.DateTime),
				state,
			)
		}
		return output.PrintTable(os.Stdout, table)
	},
}

func displayBackend(backend string) string {
	if backend == "" {
		return config.CacheNone
	}
	return backend
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearForce, "force", false, "Skip the confirmation prompt")

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheListCmd)
}
