package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	internalauth "cstsite/internal/auth"
	"cstsite/internal/config"
	"cstsite/internal/models"
	"cstsite/internal/store"
)

func withStore(cfg config.Config, fn func(ctx context.Context, st *store.Store) error) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(context.Background(), st)
}

func newAdminCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newAdminAddCmd(cfg))
	cmd.AddCommand(newAdminListCmd(cfg))
	cmd.AddCommand(newAdminSetActiveCmd(cfg, "enable", "Enable one admin account", true))
	cmd.AddCommand(newAdminSetActiveCmd(cfg, "disable", "Disable one admin account", false))
	cmd.AddCommand(newAdminDeleteCmd(cfg))
	return cmd
}

func newAdminAddCmd(cfg config.Config) *cobra.Command {
	var (
		passwordStdin bool
		email         string
		roleRaw       string
	)

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create one admin account (the first account becomes super_admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}

			username, err := internalauth.NormalizeUsername(args[0])
			if err != nil {
				return err
			}
			role, err := models.ParseAdminRole(roleRaw)
			if err != nil {
				return err
			}

			passwordBytes, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			hash, err := internalauth.HashPassword(strings.TrimSpace(string(passwordBytes)))
			if err != nil {
				return err
			}

			return withStore(cfg, func(ctx context.Context, st *store.Store) error {
				admin, err := st.CreateAdmin(ctx, username, strings.TrimSpace(email), hash, role, time.Now().UTC())
				if err != nil {
					return err
				}
				fmt.Printf("created admin %s (%s, role %s)\n", admin.Username, admin.ID, admin.Role)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&roleRaw, "role", "admin", "account role (admin or super_admin)")
	return cmd
}

func newAdminListCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(ctx context.Context, st *store.Store) error {
				admins, err := st.ListAdmins(ctx)
				if err != nil {
					return err
				}
				if len(admins) == 0 {
					fmt.Println("no admin accounts configured")
					return nil
				}
				fmt.Printf("USERNAME\tROLE\tSTATUS\tLAST LOGIN\n")
				for _, admin := range admins {
					status := "active"
					if !admin.IsActive {
						status = "disabled"
					}
					lastLogin := "never"
					if admin.LastLogin != nil {
						lastLogin = admin.LastLogin.Format(time.RFC3339)
					}
					fmt.Printf("%s\t%s\t%s\t%s\n", admin.Username, admin.Role, status, lastLogin)
				}
				return nil
			})
		},
	}
}

func newAdminSetActiveCmd(cfg config.Config, name, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := internalauth.NormalizeUsername(args[0])
			if err != nil {
				return err
			}
			return withStore(cfg, func(ctx context.Context, st *store.Store) error {
				ok, err := st.SetAdminActive(ctx, username, active)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("admin %s not found", username)
				}
				fmt.Printf("%sd admin %s\n", name, username)
				return nil
			})
		},
	}
}

func newAdminDeleteCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete one admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := internalauth.NormalizeUsername(args[0])
			if err != nil {
				return err
			}
			return withStore(cfg, func(ctx context.Context, st *store.Store) error {
				ok, err := st.DeleteAdmin(ctx, username)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("admin %s not found", username)
				}
				fmt.Printf("deleted admin %s\n", username)
				return nil
			})
		},
	}
}
