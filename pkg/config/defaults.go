package config

import "strings"

// Default values for unspecified settings.
const (
	// DefaultPrompt is the credential prompt shown when the config does
	// not override it.
	DefaultPrompt = "Password:"

	// DefaultLifespan is the cache record validity window in seconds.
	DefaultLifespan = 3600

	// DefaultNetworkPort is the standard memcached port.
	DefaultNetworkPort = 11211
)

// GetDefaultConfig returns a configuration with all defaults applied and
// no directory settings. An engine built from it returns Ignored for every
// attempt, deferring to the host's next mechanism.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in defaults for any unset fields. Zero values are
// replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyGateDefaults(&cfg.Gate)
	applyCacheDefaults(cfg)
	applyLoggingDefaults(&cfg.Logging)
}

func applyGateDefaults(g *GateConfig) {
	if g.Prompt == "" {
		g.Prompt = DefaultPrompt
	}
	if g.Cache == "" {
		g.Cache = CacheNone
	}
	g.Cache = strings.ToLower(g.Cache)
}

func applyCacheDefaults(cfg *Config) {
	// Lifespan 0 on the selected backend is a valid setting (records
	// expire immediately), so the default is only applied to sections the
	// selector does not point at. Load fills the selected section's
	// lifespan separately, by key presence.
	if cfg.FileCache.Lifespan == 0 && cfg.Gate.Cache != CacheFile {
		cfg.FileCache.Lifespan = DefaultLifespan
	}
	if cfg.NetworkCache.Lifespan == 0 && cfg.Gate.Cache != CacheNetwork {
		cfg.NetworkCache.Lifespan = DefaultLifespan
	}
	if cfg.BadgerCache.Lifespan == 0 && cfg.Gate.Cache != CacheBadger {
		cfg.BadgerCache.Lifespan = DefaultLifespan
	}
	if cfg.NetworkCache.Host == "" {
		cfg.NetworkCache.Host = "localhost"
	}
	if cfg.NetworkCache.Port == 0 {
		cfg.NetworkCache.Port = DefaultNetworkPort
	}
	if cfg.NetworkCache.KeyPrefix == "" {
		cfg.NetworkCache.KeyPrefix = "dirgate"
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}
