// Package config loads and validates the dirgate configuration.
//
// The configuration is an ini-style document. The primary [dirgate] section
// holds the directory domain, the admin identity used for group lookups,
// the authorization groups, the exclusion list, the prompt text, and the
// cache backend selector. Each cache backend has its own section
// ([file-cache], [network-cache], [badger-cache]) carrying backend-specific
// settings plus the shared lifespan key.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (DIRGATE_*)
//  2. Configuration file
//  3. Default values
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Cache backend selector values.
const (
	CacheNone    = "none"
	CacheFile    = "file"
	CacheNetwork = "network"
	CacheBadger  = "badger"
)

// Config represents the full dirgate configuration.
type Config struct {
	// Gate holds the primary [dirgate] section.
	Gate GateConfig `mapstructure:"dirgate"`

	// FileCache configures the flat-file cache backend.
	FileCache FileCacheConfig `mapstructure:"file-cache"`

	// NetworkCache configures the memcached cache backend.
	NetworkCache NetworkCacheConfig `mapstructure:"network-cache"`

	// BadgerCache configures the embedded key-value cache backend.
	BadgerCache BadgerCacheConfig `mapstructure:"badger-cache"`

	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging"`

	// Metrics controls the optional Prometheus instrumentation.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// GateConfig is the primary [dirgate] section.
type GateConfig struct {
	// Domain is the directory domain; usernames are qualified as
	// user@domain for remote verification.
	Domain string `mapstructure:"domain"`

	// AdminUsername and AdminPassword identify the admin account used
	// for group-membership queries. The password is kept in memory only
	// for the lifetime of one decision.
	AdminUsername string `mapstructure:"admin-username"`
	AdminPassword string `mapstructure:"admin-password"`

	// Group names a single required group. Groups names several,
	// comma-separated, OR-combined. Both empty means no group
	// restriction.
	Group  string `mapstructure:"group"`
	Groups string `mapstructure:"groups"`

	// Excludes is a comma-separated list of usernames dirgate never
	// authenticates (local system accounts, typically).
	Excludes string `mapstructure:"excludes"`

	// Prompt is the credential prompt text shown by the host.
	Prompt string `mapstructure:"prompt"`

	// Cache selects the credential cache backend.
	Cache string `mapstructure:"cache" validate:"omitempty,oneof=none file network badger"`
}

// FileCacheConfig is the [file-cache] section.
type FileCacheConfig struct {
	// File is the path of the cache file.
	File string `mapstructure:"file"`

	// Lifespan is the record validity window in seconds.
	Lifespan int `mapstructure:"lifespan" validate:"gte=0"`
}

// NetworkCacheConfig is the [network-cache] section.
type NetworkCacheConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`

	// KeyPrefix namespaces the remote keys; the backend stores each
	// record under "<key-prefix>:<username>".
	KeyPrefix string `mapstructure:"key-prefix"`

	// Debug enables verbose logging of remote cache operations.
	Debug bool `mapstructure:"debug"`

	Lifespan int `mapstructure:"lifespan" validate:"gte=0"`
}

// BadgerCacheConfig is the [badger-cache] section.
type BadgerCacheConfig struct {
	// Path is the directory holding the badger database.
	Path string `mapstructure:"path"`

	Lifespan int `mapstructure:"lifespan" validate:"gte=0"`
}

// LoggingConfig is the [logging] section.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
	Output string `mapstructure:"output"`
}

// MetricsConfig is the [metrics] section.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// RequiredGroups returns the ordered set of groups the user must belong to
// (any one suffices). The plural key wins when both are set.
func (g GateConfig) RequiredGroups() []string {
	raw := g.Groups
	if raw == "" {
		raw = g.Group
	}
	return splitList(raw)
}

// ExcludedUsers returns the set of usernames dirgate ignores.
func (g GateConfig) ExcludedUsers() []string {
	return splitList(g.Excludes)
}

// Configured reports whether the essential settings are present. When this
// is false the engine defers to the host's next authentication mechanism.
func (g GateConfig) Configured() bool {
	return g.Domain != "" && g.AdminUsername != "" && g.AdminPassword != ""
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: path to the ini config file (empty string uses the
//     default location)
//
// Returns the loaded, defaulted, and validated configuration.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := GetDefaultConfig()
		return cfg, nil
	}

	// ini values arrive as strings; weak typing turns "3600" and "true"
	// into the int and bool fields they target.
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyLifespanDefault(v, &cfg)
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper for the ini surface and DIRGATE_* env
// overrides (DIRGATE_DIRGATE_DOMAIN, DIRGATE_FILE-CACHE_LIFESPAN, ...).
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("DIRGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("ini")
		return
	}
	v.SetConfigFile(DefaultConfigPath())
	v.SetConfigType("ini")
}

// applyLifespanDefault fills the selected backend's lifespan when the key
// is absent from every source. An explicit `lifespan = 0` is preserved:
// absence and zero are different settings here.
func applyLifespanDefault(v *viper.Viper, cfg *Config) {
	switch strings.ToLower(cfg.Gate.Cache) {
	case CacheFile:
		if !v.IsSet("file-cache.lifespan") {
			cfg.FileCache.Lifespan = DefaultLifespan
		}
	case CacheNetwork:
		if !v.IsSet("network-cache.lifespan") {
			cfg.NetworkCache.Lifespan = DefaultLifespan
		}
	case CacheBadger:
		if !v.IsSet("badger-cache.lifespan") {
			cfg.BadgerCache.Lifespan = DefaultLifespan
		}
	}
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error).
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() string {
	return "/etc/dirgate/dirgate.conf"
}

// DefaultConfigExists checks for a config file at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(DefaultConfigPath())
	return err == nil
}
