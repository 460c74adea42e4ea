package main

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"changos/internal/auth"
	"changos/internal/config"
)

func newConfigCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change configuration",
	}

	cmd.AddCommand(newConfigGetCmd(cfg))
	cmd.AddCommand(newConfigListCmd(cfg, jsonOutput))
	cmd.AddCommand(newConfigSetCmd(cfg))
	return cmd
}

func newConfigGetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get an effective config value",
		Args:  requireExactlyArgs(1, "requires exactly 1 argument: <key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !config.IsAllowedKey(key) {
				return fmt.Errorf("unknown key: %s (allowed: %s)", key, strings.Join(config.AllowedKeys(), ", "))
			}
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			return writePlain("%s\n", value)
		},
	}
}

type profileSummary struct {
	Username   string `json:"username" yaml:"username"`
	Credential string `json:"credential" yaml:"credential"`
}

type configListing struct {
	Values   map[string]string `json:"values" yaml:"values"`
	Profiles []profileSummary  `json:"profiles" yaml:"profiles"`
}

func newConfigListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List effective config values and login profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := buildConfigListing(cfg)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return writeJSON(listing)
			}
			for _, key := range config.AllowedKeys() {
				_ = writePlain("%s = %s\n", key, listing.Values[key])
			}
			if len(listing.Profiles) == 0 {
				return writePlain("profiles: none\n")
			}
			_ = writePlain("profiles:\n")
			for _, p := range listing.Profiles {
				_ = writePlain("  %s (%s)\n", p.Username, p.Credential)
			}
			return nil
		},
	}
}

// buildConfigListing never includes passwords or hashes.
func buildConfigListing(cfg *config.Config) (configListing, error) {
	listing := configListing{
		Values:   make(map[string]string, len(config.AllowedKeys())),
		Profiles: make([]profileSummary, 0, len(cfg.Profiles)),
	}
	for _, key := range config.AllowedKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			return configListing{}, err
		}
		listing.Values[key] = value
	}
	for _, p := range cfg.Profiles {
		listing.Profiles = append(listing.Profiles, profileSummary{
			Username:   p.Username,
			Credential: credentialKind(p),
		})
	}
	return listing, nil
}

func credentialKind(p auth.Profile) string {
	switch {
	case p.PasswordHash != "":
		return "bcrypt hash"
	case p.Password != "":
		return "plaintext password"
	default:
		return "no password, login disabled"
	}
}

func newConfigSetCmd(cfg *config.Config) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Validate and write a config value",
		Args:  requireExactlyArgs(2, "requires exactly 2 arguments: <key> <value>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := validateConfigValue(cfg, key, value); err != nil {
				return err
			}

			var path string
			var err error
			if global {
				path, err = config.GlobalPath()
			} else {
				path, err = config.ProjectPath()
			}
			if err != nil {
				return err
			}

			if err := config.SetKey(path, key, value); err != nil {
				return err
			}
			return writePlain("set %s in %s\n", key, path)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "write to global config (~/.changos.toml)")
	return cmd
}

// validateConfigValue checks value against the effective config.
func validateConfigValue(cfg *config.Config, key, value string) error {
	if !config.IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s (allowed: %s)", key, strings.Join(config.AllowedKeys(), ", "))
	}
	value = strings.TrimSpace(value)
	switch key {
	case "api_url", "listen_url":
		return validateHTTPURL(key, value)
	case "log_level":
		if value == "" {
			return fmt.Errorf("log_level must not be empty")
		}
		if _, err := parseLogLevel(value); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	case "default_dev":
		if !slices.Contains(cfg.Developers, value) {
			return fmt.Errorf("default_dev %q is not one of the developers (%s)", value, strings.Join(cfg.Developers, ", "))
		}
	case "db_path", "session_path":
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}

func validateHTTPURL(key, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", key, raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, raw)
	}
	return nil
}
