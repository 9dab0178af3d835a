package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SampleOptions seeds the generated configuration file.
type SampleOptions struct {
	Domain        string
	AdminUsername string
	AdminPassword string
	Groups        []string
	Excludes      []string
	Cache         string
	CacheFile     string
	Lifespan      int
}

// WriteSample writes an ini configuration file built from opts. The file is
// written 0600: it carries the admin credential. Returns an error if the
// file exists and force is false.
func WriteSample(path string, opts SampleOptions, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if opts.Cache == "" {
		opts.Cache = CacheNone
	}
	if opts.Lifespan == 0 {
		opts.Lifespan = DefaultLifespan
	}
	if opts.CacheFile == "" {
		opts.CacheFile = "/var/lib/dirgate/cache"
	}

	var b strings.Builder
	b.WriteString("[dirgate]\n")
	b.WriteString("domain = " + opts.Domain + "\n")
	b.WriteString("admin-username = " + opts.AdminUsername + "\n")
	b.WriteString("admin-password = " + opts.AdminPassword + "\n")
	if len(opts.Groups) > 0 {
		b.WriteString("groups = " + strings.Join(opts.Groups, ",") + "\n")
	}
	if len(opts.Excludes) > 0 {
		b.WriteString("excludes = " + strings.Join(opts.Excludes, ",") + "\n")
	}
	b.WriteString("prompt = " + DefaultPrompt + "\n")
	b.WriteString("cache = " + opts.Cache + "\n")
	b.WriteString("\n[file-cache]\n")
	b.WriteString("file = " + opts.CacheFile + "\n")
	b.WriteString("lifespan = " + strconv.Itoa(opts.Lifespan) + "\n")
	b.WriteString("\n[network-cache]\n")
	b.WriteString("host = localhost\n")
	b.WriteString("port = " + strconv.Itoa(DefaultNetworkPort) + "\n")
	b.WriteString("key-prefix = dirgate\n")
	b.WriteString("debug = false\n")
	b.WriteString("lifespan = " + strconv.Itoa(opts.Lifespan) + "\n")
	b.WriteString("\n[badger-cache]\n")
	b.WriteString("path = /var/lib/dirgate/badger\n")
	b.WriteString("lifespan = " + strconv.Itoa(opts.Lifespan) + "\n")
	b.WriteString("\n[logging]\n")
	b.WriteString("level = INFO\n")
	b.WriteString("format = text\n")
	b.WriteString("output = stderr\n")

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
