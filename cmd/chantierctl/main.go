// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package main implements chantierctl, the operator CLI for Chantier.
//
// chantierctl opens the DuckDB database directly, so run it against a
// stopped server or a copy of the database file.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chantierhq/chantier/internal/auth"
	"github.com/chantierhq/chantier/internal/config"
	"github.com/chantierhq/chantier/internal/database"
	"github.com/chantierhq/chantier/internal/models"
)

const version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chantierctl",
		Short:         "Operator CLI for the Chantier project management server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().String("db", "", "database path (defaults to the configured database.path)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newListUsersCmd())
	root.AddCommand(newMakeAdminCmd())
	root.AddCommand(newCreateUserCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the chantierctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func newListUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List all accounts with project and task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			db, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			users, err := db.ListUsersWithCounts(ctx)
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tPROJECTS\tTASKS")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
					u.ID, u.Name, u.Email, u.Role, u.ProjectCount, u.TaskCount)
			}
			return w.Flush()
		},
	}
}

func newMakeAdminCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "make-admin",
		Short: "Promote an existing account to administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			db, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := db.GetUserByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("look up %s: %w", email, err)
			}
			if user.Role == models.RoleAdministrator {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already an administrator\n", email)
				return nil
			}
			if err := db.UpdateUserRole(ctx, user.ID, models.RoleAdministrator); err != nil {
				return fmt.Errorf("update role: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an administrator\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the account to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newCreateUserCmd() *cobra.Command {
	var (
		name     string
		email    string
		password string
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account directly, bypassing the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			db, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			role := models.RoleStandard
			if admin {
				role = models.RoleAdministrator
			}
			user, err := db.CreateUser(ctx, name, email, hash, role)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (id %d)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the administrator role")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

// openDatabase resolves the database path from the --db flag or the layered
// configuration and opens it.
func openDatabase(cmd *cobra.Command) (*database.DB, error) {
	dbCfg := config.DatabaseConfig{}
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		dbCfg.Path = path
	} else {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load configuration (or pass --db): %w", err)
		}
		dbCfg = cfg.Database
	}
	return database.New(&dbCfg)
}
