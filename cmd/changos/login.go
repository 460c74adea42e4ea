package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"changos/internal/api"
	"changos/internal/auth"
	"changos/internal/config"
)

func newLoginCmd(cfg *config.Config) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in as a configured developer profile",
		Args:  requireExactlyArgs(1, "username is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				fmt.Fprint(os.Stderr, "password: ")
				secret, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = secret
			}

			// Login never reaches the task store.
			b, err := newBoard(cfg, api.NewClient(cfg.APIURL), cliNotifier(false))
			if err != nil {
				return err
			}
			profile, err := b.Login(args[0], password)
			if err != nil {
				return err
			}
			return saveSession(cfg.SessionPath, profile)
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the logged in developer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := newBoard(cfg, api.NewClient(cfg.APIURL), cliNotifier(false))
			if err != nil {
				return err
			}
			if err := clearSession(cfg.SessionPath); err != nil {
				return err
			}
			b.Logout()
			return nil
		},
	}
}

type whoamiResponse struct {
	LoggedIn bool   `json:"logged_in" yaml:"logged_in"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

func newWhoamiCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in developer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := loadSession(cfg.SessionPath)
			if err != nil {
				return err
			}

			resp := whoamiResponse{}
			if username != "" {
				if profile, ok := auth.Find(cfg.Profiles, username); ok {
					resp = whoamiResponse{LoggedIn: true, Username: profile.Username, Avatar: profile.Avatar}
				}
			}

			if *jsonOutput {
				return writeJSON(resp)
			}
			if !resp.LoggedIn {
				return writePlain("not logged in\n")
			}
			return writePlain("%s\n", resp.Username)
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for a profile's password_hash setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				secret, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = secret
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			return writePlain("%s\n", hash)
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	return cmd
}
