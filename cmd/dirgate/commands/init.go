package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cipherhq/dirgate/internal/cli/prompt"
	"github.com/cipherhq/dirgate/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration file",
	Long: `Interactively create the dirgate configuration file.

Prompts for the directory domain, the admin identity used for group
lookups, the authorization groups, and the cache backend, then writes
an ini file readable only by the owner.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}

		opts, err := promptForConfig()
		if err != nil {
			if prompt.IsAborted(err) {
				fmt.Println("Aborted.")
				return nil
			}
			return err
		}

		if err := config.WriteSample(path, opts, initForce); err != nil {
			return err
		}

		fmt.Printf("Configuration written to %s\n", path)
		fmt.Println("Review the file and adjust the cache sections as needed.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func promptForConfig() (config.SampleOptions, error) {
	var opts config.SampleOptions
	var err error

	opts.Domain, err = prompt.InputRequired("Directory domain")
	if err != nil {
		return opts, err
	}

	opts.AdminUsername, err = prompt.InputRequired("Admin username (for group lookups)")
	if err != nil {
		return opts, err
	}

	opts.AdminPassword, err = prompt.Password("Admin password")
	if err != nil {
		return opts, err
	}

	groups, err := prompt.InputOptional("Required groups, comma-separated")
	if err != nil {
		return opts, err
	}
	opts.Groups = splitCSV(groups)

	excludes, err := prompt.InputOptional("Excluded usernames, comma-separated")
	if err != nil {
		return opts, err
	}
	opts.Excludes = splitCSV(excludes)

	opts.Cache, err = prompt.Select("Cache backend", []string{
		config.CacheNone, config.CacheFile, config.CacheNetwork, config.CacheBadger,
	})
	if err != nil {
		return opts, err
	}

	if opts.Cache != config.CacheNone {
		opts.Lifespan, err = prompt.InputInt("Cache lifespan (seconds)", config.DefaultLifespan)
		if err != nil {
			return opts, err
		}
	}
	if opts.Cache == config.CacheFile {
		opts.CacheFile, err = prompt.Input("Cache file path", "/var/lib/dirgate/cache")
		if err != nil {
			return opts, err
		}
	}

	return opts, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
