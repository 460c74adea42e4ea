package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.APIURL != "https://changos-api.fly.dev" {
		t.Fatalf("expected default API URL, got %q", cfg.APIURL)
	}
	if cfg.ListenURL != "http://127.0.0.1:7333" {
		t.Fatalf("expected default listen URL, got %q", cfg.ListenURL)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected empty db path, got %q", cfg.DBPath)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.DefaultDev != "jean" {
		t.Fatalf("expected default dev jean, got %q", cfg.DefaultDev)
	}
	if len(cfg.Developers) != 3 || cfg.Developers[0] != "jean" || cfg.Developers[1] != "arol" || cfg.Developers[2] != "agu" {
		t.Fatalf("unexpected developers: %v", cfg.Developers)
	}
	if !cfg.RequireOwner {
		t.Fatal("expected require_owner default true")
	}
	if len(cfg.Profiles) != 3 {
		t.Fatalf("expected a profile per developer, got %d", len(cfg.Profiles))
	}
	for _, p := range cfg.Profiles {
		if p.Password != "" || p.PasswordHash != "" {
			t.Fatalf("default profile %q must not carry a password", p.Username)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".changos.toml")
	if err := os.WriteFile(path, []byte(`api_url = "http://localhost:9999"
log_level = "debug"
developers = ["ana", "bo"]
require_owner = false

[[profiles]]
username = "ana"
password = "ana-pass"
avatar = "A"
`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://localhost:9999" {
		t.Fatalf("expected api_url 'http://localhost:9999', got %q", cfg.APIURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log_level 'debug', got %q", cfg.LogLevel)
	}
	if len(cfg.Developers) != 2 || cfg.Developers[1] != "bo" {
		t.Fatalf("unexpected developers: %v", cfg.Developers)
	}
	if cfg.RequireOwner {
		t.Fatal("expected require_owner false")
	}
	if len(cfg.Profiles) != 1 || cfg.Profiles[0].Username != "ana" || cfg.Profiles[0].Password != "ana-pass" || cfg.Profiles[0].Avatar != "A" {
		t.Fatalf("unexpected profiles: %+v", cfg.Profiles)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFile("/nonexistent/path/.changos.toml", &cfg); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("defaults should be preserved")
	}
}

func TestIsAllowedKey(t *testing.T) {
	for _, key := range []string{
		"api_url",
		"listen_url",
		"db_path",
		"log_level",
		"default_dev",
		"developers",
		"require_owner",
		"session_path",
	} {
		if !IsAllowedKey(key) {
			t.Fatalf("expected %q to be allowed", key)
		}
	}
	for _, key := range []string{"invalid", "profiles"} {
		if IsAllowedKey(key) {
			t.Fatalf("expected %q to not be allowed", key)
		}
	}
}

func TestGetKey(t *testing.T) {
	cfg := Config{
		APIURL:       "http://test:1234",
		ListenURL:    "http://127.0.0.1:1",
		DBPath:       "/tmp/test.db",
		LogLevel:     "warn",
		DefaultDev:   "arol",
		Developers:   []string{"arol", "agu"},
		RequireOwner: false,
		SessionPath:  "/tmp/session.toml",
	}

	tests := map[string]string{
		"api_url":       "http://test:1234",
		"listen_url":    "http://127.0.0.1:1",
		"db_path":       "/tmp/test.db",
		"log_level":     "warn",
		"default_dev":   "arol",
		"developers":    "arol,agu",
		"require_owner": "false",
		"session_path":  "/tmp/session.toml",
	}
	for key, want := range tests {
		val, err := cfg.Get(key)
		if err != nil || val != want {
			t.Fatalf("%s: expected %q, got %q (err: %v)", key, want, val, err)
		}
	}
	if _, err := cfg.Get("invalid"); err == nil {
		t.Fatal("expected error for invalid key")
	}
}

func TestSetKeyCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "new.toml")
	if err := SetKey(path, "api_url", "http://127.0.0.1:7333"); err != nil {
		t.Fatalf("set: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:7333" {
		t.Fatalf("expected local api_url, got %q", cfg.APIURL)
	}
}

func TestSetKeyUpdatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.toml")
	if err := os.WriteFile(path, []byte("default_dev = \"jean\"\napi_url = \"http://keep\"\n\n[[profiles]]\nusername = \"jean\"\npassword = \"keep-me\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := SetKey(path, "default_dev", "agu"); err != nil {
		t.Fatalf("set: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultDev != "agu" {
		t.Fatalf("expected 'agu', got %q", cfg.DefaultDev)
	}
	if cfg.APIURL != "http://keep" {
		t.Fatalf("expected preserved api_url 'http://keep', got %q", cfg.APIURL)
	}
	if len(cfg.Profiles) != 1 || cfg.Profiles[0].Password != "keep-me" {
		t.Fatalf("expected preserved profiles, got %+v", cfg.Profiles)
	}
}

func TestSetKeyTypedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typed.toml")
	if err := SetKey(path, "require_owner", "false"); err != nil {
		t.Fatalf("set require_owner: %v", err)
	}
	if err := SetKey(path, "developers", "ana, bo ,"); err != nil {
		t.Fatalf("set developers: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RequireOwner {
		t.Fatal("expected require_owner false")
	}
	if len(cfg.Developers) != 2 || cfg.Developers[0] != "ana" || cfg.Developers[1] != "bo" {
		t.Fatalf("unexpected developers: %v", cfg.Developers)
	}

	if err := SetKey(path, "require_owner", "sometimes"); err == nil {
		t.Fatal("expected bool validation error")
	}
	if err := SetKey(path, "developers", " , "); err == nil {
		t.Fatal("expected empty developer list to be rejected")
	}
}

func TestSetKeyInvalidKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := SetKey(path, "invalid_key", "value"); err == nil {
		t.Fatal("expected error for invalid key")
	}
}

func TestConfigDirOverridePaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHANGOS_CONFIG_DIR", dir)

	globalPath, err := GlobalPath()
	if err != nil {
		t.Fatalf("global path: %v", err)
	}
	if globalPath != filepath.Join(dir, ".changos.toml") {
		t.Fatalf("unexpected global path: %s", globalPath)
	}

	projectPath, err := ProjectPath()
	if err != nil {
		t.Fatalf("project path: %v", err)
	}
	if projectPath != filepath.Join(dir, ".changos.toml") {
		t.Fatalf("unexpected project path: %s", projectPath)
	}
}

func TestLoadConfigDirOverride(t *testing.T) {
	configDir := t.TempDir()
	cfgPath := filepath.Join(configDir, ".changos.toml")
	if err := os.WriteFile(cfgPath, []byte("api_url = \"http://127.0.0.1:9001\"\n"), 0644); err != nil {
		t.Fatalf("write override config: %v", err)
	}

	workspace := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspace, ".changos.toml"), []byte("api_url = \"http://ignored\"\n"), 0644); err != nil {
		t.Fatalf("write workspace config: %v", err)
	}
	chdir(t, workspace)

	t.Setenv("CHANGOS_CONFIG_DIR", configDir)
	t.Setenv("CHANGOS_DB", "")
	t.Setenv("CHANGOS_API_URL", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:9001" {
		t.Fatalf("expected config-dir api_url override, got %q", cfg.APIURL)
	}
	if cfg.DBPath != filepath.Join(workspace, DefaultDBFileName) {
		t.Fatalf("expected default workspace db path, got %q", cfg.DBPath)
	}
	if cfg.SessionPath != filepath.Join(configDir, DefaultSessionFileName) {
		t.Fatalf("expected session file in config dir, got %q", cfg.SessionPath)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHANGOS_CONFIG_DIR", t.TempDir())
	t.Setenv("CHANGOS_API_URL", "http://example.com:8080")
	t.Setenv("CHANGOS_DB", "/tmp/override.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://example.com:8080" {
		t.Fatalf("expected env override for API URL, got %q", cfg.APIURL)
	}
	if cfg.DBPath != "/tmp/override.db" {
		t.Fatalf("expected env override for DB path, got %q", cfg.DBPath)
	}
}

func TestLoadNormalizesEmptyValues(t *testing.T) {
	configDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(configDir, ".changos.toml"), []byte("log_level = \"\"\ndevelopers = []\ndefault_dev = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CHANGOS_CONFIG_DIR", configDir)
	t.Setenv("CHANGOS_API_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if len(cfg.Developers) != len(DefaultDevelopers) {
		t.Fatalf("expected default developers, got %v", cfg.Developers)
	}
	if cfg.DefaultDev != "jean" {
		t.Fatalf("expected first developer as default dev, got %q", cfg.DefaultDev)
	}
}

func TestLoadIgnoresProjectConfigByDefault(t *testing.T) {
	homeDir := t.TempDir()
	workspace := t.TempDir()

	if err := os.WriteFile(filepath.Join(homeDir, ".changos.toml"), []byte("default_dev = \"arol\"\n"), 0o644); err != nil {
		t.Fatalf("write home config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workspace, ".changos.toml"), []byte("default_dev = \"agu\"\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}
	chdir(t, workspace)

	t.Setenv("HOME", homeDir)
	t.Setenv("CHANGOS_CONFIG_DIR", "")
	t.Setenv("CHANGOS_TRUST_PROJECT_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultDev != "arol" {
		t.Fatalf("expected global default_dev 'arol', got %q", cfg.DefaultDev)
	}
	if cfg.TrustedProjectConfigPath != "" {
		t.Fatalf("expected no trusted project config path, got %q", cfg.TrustedProjectConfigPath)
	}
}

func TestLoadAppliesProjectConfigWhenTrusted(t *testing.T) {
	homeDir := t.TempDir()
	workspace := t.TempDir()

	if err := os.WriteFile(filepath.Join(homeDir, ".changos.toml"), []byte("default_dev = \"arol\"\n"), 0o644); err != nil {
		t.Fatalf("write home config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workspace, ".changos.toml"), []byte("default_dev = \"agu\"\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}
	chdir(t, workspace)

	t.Setenv("HOME", homeDir)
	t.Setenv("CHANGOS_CONFIG_DIR", "")
	t.Setenv("CHANGOS_TRUST_PROJECT_CONFIG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultDev != "agu" {
		t.Fatalf("expected trusted project default_dev 'agu', got %q", cfg.DefaultDev)
	}
	expectedPath := filepath.Join(workspace, ".changos.toml")
	if cfg.TrustedProjectConfigPath != expectedPath {
		t.Fatalf("expected trusted project config path %q, got %q", expectedPath, cfg.TrustedProjectConfigPath)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CHANGOS_TEST_DOTENV=from-file\nCHANGOS_TEST_PRESET=from-file\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("CHANGOS_TEST_DOTENV", "")
	os.Unsetenv("CHANGOS_TEST_DOTENV")
	t.Setenv("CHANGOS_TEST_PRESET", "from-env")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("CHANGOS_TEST_DOTENV") })

	if got := os.Getenv("CHANGOS_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("expected value from .env, got %q", got)
	}
	if got := os.Getenv("CHANGOS_TEST_PRESET"); got != "from-env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing .env should not error: %v", err)
	}
}
