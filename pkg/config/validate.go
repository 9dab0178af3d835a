package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for structural and cross-field errors.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}

	// Backend-specific requirements only matter for the selected backend.
	switch cfg.Gate.Cache {
	case CacheNone, "":
	case CacheFile:
		if cfg.FileCache.File == "" {
			return fmt.Errorf("cache backend %q requires [file-cache] file", CacheFile)
		}
	case CacheNetwork:
		if cfg.NetworkCache.Host == "" {
			return fmt.Errorf("cache backend %q requires [network-cache] host", CacheNetwork)
		}
	case CacheBadger:
		if cfg.BadgerCache.Path == "" {
			return fmt.Errorf("cache backend %q requires [badger-cache] path", CacheBadger)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", cfg.Gate.Cache)
	}

	// Partial directory settings are almost always a broken deployment:
	// the engine would silently ignore every attempt.
	some := cfg.Gate.Domain != "" || cfg.Gate.AdminUsername != "" || cfg.Gate.AdminPassword != ""
	if some && !cfg.Gate.Configured() {
		return fmt.Errorf("incomplete directory settings: domain, admin-username and admin-password must all be set")
	}

	return nil
}
