package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"changos/internal/auth"
)

const (
	DefaultAPIURL          = "https://changos-api.fly.dev"
	DefaultListenURL       = "http://127.0.0.1:7333"
	DefaultDBFileName      = ".changos.db"
	DefaultLogLevel        = "warn"
	DefaultDev             = "jean"
	DefaultRequireOwner    = true
	DefaultSessionFileName = ".changos-session.toml"

	configFileName = ".changos.toml"

	configDirEnvKey          = "CHANGOS_CONFIG_DIR"
	trustProjectConfigEnvKey = "CHANGOS_TRUST_PROJECT_CONFIG"
	apiURLEnvKey             = "CHANGOS_API_URL"
	dbPathEnvKey             = "CHANGOS_DB"
)

// DefaultDevelopers is the developer roster a fresh install knows about.
var DefaultDevelopers = []string{"jean", "arol", "agu"}

// Config defines runtime configuration for changos.
type Config struct {
	APIURL                   string         `toml:"api_url"`
	ListenURL                string         `toml:"listen_url"`
	DBPath                   string         `toml:"db_path"`
	LogLevel                 string         `toml:"log_level"`
	DefaultDev               string         `toml:"default_dev"`
	Developers               []string       `toml:"developers"`
	RequireOwner             bool           `toml:"require_owner"`
	SessionPath              string         `toml:"session_path"`
	Profiles                 []auth.Profile `toml:"profiles"`
	TrustedProjectConfigPath string         `toml:"-"`
}

// Default returns default configuration values. Default profiles carry no
// password, so nobody can log in until one is configured.
func Default() Config {
	profiles := make([]auth.Profile, 0, len(DefaultDevelopers))
	for _, dev := range DefaultDevelopers {
		profiles = append(profiles, auth.Profile{Username: dev})
	}
	return Config{
		APIURL:       DefaultAPIURL,
		ListenURL:    DefaultListenURL,
		DBPath:       "",
		LogLevel:     DefaultLogLevel,
		DefaultDev:   DefaultDev,
		Developers:   append([]string(nil), DefaultDevelopers...),
		RequireOwner: DefaultRequireOwner,
		Profiles:     profiles,
	}
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigDir() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return dir, true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"api_url",
	"listen_url",
	"db_path",
	"log_level",
	"default_dev",
	"developers",
	"require_owner",
	"session_path",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "listen_url":
		return c.ListenURL, nil
	case "db_path":
		return c.DBPath, nil
	case "log_level":
		return c.LogLevel, nil
	case "default_dev":
		return c.DefaultDev, nil
	case "developers":
		return strings.Join(c.Developers, ","), nil
	case "require_owner":
		return strconv.FormatBool(c.RequireOwner), nil
	case "session_path":
		return c.SessionPath, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

func configDir() (string, error) {
	if dir, ok := overrideConfigDir(); ok {
		return dir, nil
	}
	return os.UserHomeDir()
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if dir, ok := overrideConfigDir(); ok {
		return filepath.Join(dir, configFileName), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	data[key] = parsedValue

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if dir, ok := overrideConfigDir(); ok {
		if err := loadFile(filepath.Join(dir, configFileName), &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}
	if cfg.SessionPath == "" {
		if dir, err := configDir(); err == nil {
			cfg.SessionPath = filepath.Join(dir, DefaultSessionFileName)
		}
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}

	cfg.normalize()

	return &cfg, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "require_owner":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", key)
		}
		return parsed, nil
	case "developers":
		devs := splitCSV(value)
		if len(devs) == 0 {
			return nil, fmt.Errorf("%s must list at least one developer", key)
		}
		return devs, nil
	default:
		return value, nil
	}
}

func splitCSV(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = DefaultAPIURL
	}
	if strings.TrimSpace(c.ListenURL) == "" {
		c.ListenURL = DefaultListenURL
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Developers = splitCSV(strings.Join(c.Developers, ","))
	if len(c.Developers) == 0 {
		c.Developers = append([]string(nil), DefaultDevelopers...)
	}
	if strings.TrimSpace(c.DefaultDev) == "" {
		c.DefaultDev = c.Developers[0]
	}
}
