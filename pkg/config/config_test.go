package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dirgate.conf")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFromINI(t *testing.T) {
	path := writeConfig(t, `
[dirgate]
domain = example.com
admin-username = admin
admin-password = hunter2
groups = admins, ops
excludes = root, backup
prompt = Directory password:
cache = file

[file-cache]
file = /tmp/dirgate-cache
lifespan = 1800
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Gate.Domain != "example.com" {
		t.Errorf("domain = %q, want %q", cfg.Gate.Domain, "example.com")
	}
	if cfg.Gate.AdminUsername != "admin" {
		t.Errorf("admin-username = %q, want %q", cfg.Gate.AdminUsername, "admin")
	}
	if cfg.Gate.Prompt != "Directory password:" {
		t.Errorf("prompt = %q, want %q", cfg.Gate.Prompt, "Directory password:")
	}
	if cfg.Gate.Cache != CacheFile {
		t.Errorf("cache = %q, want %q", cfg.Gate.Cache, CacheFile)
	}
	if cfg.FileCache.File != "/tmp/dirgate-cache" {
		t.Errorf("file-cache file = %q, want /tmp/dirgate-cache", cfg.FileCache.File)
	}
	if cfg.FileCache.Lifespan != 1800 {
		t.Errorf("file-cache lifespan = %d, want 1800", cfg.FileCache.Lifespan)
	}

	groups := cfg.Gate.RequiredGroups()
	if len(groups) != 2 || groups[0] != "admins" || groups[1] != "ops" {
		t.Errorf("RequiredGroups() = %v, want [admins ops]", groups)
	}
	excluded := cfg.Gate.ExcludedUsers()
	if len(excluded) != 2 || excluded[0] != "root" || excluded[1] != "backup" {
		t.Errorf("ExcludedUsers() = %v, want [root backup]", excluded)
	}
	if !cfg.Gate.Configured() {
		t.Error("Configured() = false, want true")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gate.Prompt != DefaultPrompt {
		t.Errorf("prompt = %q, want default %q", cfg.Gate.Prompt, DefaultPrompt)
	}
	if cfg.Gate.Cache != CacheNone {
		t.Errorf("cache = %q, want %q", cfg.Gate.Cache, CacheNone)
	}
	if cfg.Gate.Configured() {
		t.Error("Configured() = true for empty config, want false")
	}
}

func TestSingularGroupKey(t *testing.T) {
	path := writeConfig(t, `
[dirgate]
domain = example.com
admin-username = admin
admin-password = hunter2
group = staff
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	groups := cfg.Gate.RequiredGroups()
	if len(groups) != 1 || groups[0] != "staff" {
		t.Errorf("RequiredGroups() = %v, want [staff]", groups)
	}
}

func TestNetworkCacheDefaults(t *testing.T) {
	path := writeConfig(t, `
[dirgate]
domain = example.com
admin-username = admin
admin-password = hunter2
cache = network
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.NetworkCache.Host != "localhost" {
		t.Errorf("network host = %q, want localhost", cfg.NetworkCache.Host)
	}
	if cfg.NetworkCache.Port != DefaultNetworkPort {
		t.Errorf("network port = %d, want %d", cfg.NetworkCache.Port, DefaultNetworkPort)
	}
	if cfg.NetworkCache.KeyPrefix != "dirgate" {
		t.Errorf("key-prefix = %q, want dirgate", cfg.NetworkCache.KeyPrefix)
	}
	if cfg.NetworkCache.Lifespan != DefaultLifespan {
		t.Errorf("lifespan = %d, want default %d", cfg.NetworkCache.Lifespan, DefaultLifespan)
	}
}

func TestExplicitZeroLifespanPreserved(t *testing.T) {
	path := writeConfig(t, `
[dirgate]
domain = example.com
admin-username = admin
admin-password = hunter2
cache = file

[file-cache]
file = /tmp/dirgate-cache
lifespan = 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.FileCache.Lifespan != 0 {
		t.Errorf("lifespan = %d, want explicit 0 preserved", cfg.FileCache.Lifespan)
	}
}
