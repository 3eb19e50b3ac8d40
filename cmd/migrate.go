// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/canonical/lead-access-service/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down [version]|status|check]",
	Short: "Run database migrations",
	Long: `Run the embedded database migrations. Without arguments all pending
migrations are applied, "down" rolls back one step or down to a version.`,
	Args: validMigrateArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := cmd.Flags().GetString("dsn")
		if dsn == "" {
			dsn = os.Getenv("DSN")
		}
		if dsn == "" {
			return fmt.Errorf("a DSN is required, pass --dsn or set DSN")
		}

		format, _ := cmd.Flags().GetString("format")

		command, version := "up", int64(-1)
		if len(args) > 0 {
			command = args[0]
		}
		if len(args) > 1 {
			version, _ = strconv.ParseInt(args[1], 10, 64)
		}

		m, closeDB, err := newMigrator(cmd.Context(), dsn, format, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeDB()

		return m.run(cmd.Context(), command, version)
	},
}

func validMigrateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(0, 2)(cmd, args); err != nil {
		return err
	}

	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "up", "down", "status", "check":
	default:
		return fmt.Errorf("invalid first argument: %q", args[0])
	}

	if len(args) == 2 {
		if args[0] != "down" {
			return fmt.Errorf("invalid argument combination: %q", args)
		}

		if v, err := strconv.ParseInt(args[1], 10, 64); err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %q", args[1])
		}
	}

	return nil
}

type migrator struct {
	provider *goose.Provider
	json     bool
	out      io.Writer
}

func newMigrator(ctx context.Context, dsn, format string, out io.Writer) (*migrator, func(), error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid DSN: %v", err)
	}

	db := stdlib.OpenDB(*config)
	closeDB := func() { _ = db.Close() }

	if err := db.PingContext(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to connect to the database: %v", err)
	}

	m, err := migratorFor(db, format == "json", out)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	return m, closeDB, nil
}

func migratorFor(db *sql.DB, asJSON bool, out io.Writer) (*migrator, error) {
	var opts []goose.ProviderOption
	if asJSON {
		opts = append(opts, goose.WithLogger(goose.NopLogger()))
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.EmbedMigrations, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}

	return &migrator{provider: provider, json: asJSON, out: out}, nil
}

func (m *migrator) run(ctx context.Context, command string, version int64) error {
	switch command {
	case "down":
		return m.down(ctx, version)
	case "status":
		return m.status(ctx)
	case "check":
		return m.check(ctx)
	default:
		results, err := m.provider.Up(ctx)
		if err != nil {
			return err
		}
		return m.applied(results)
	}
}

func (m *migrator) down(ctx context.Context, version int64) error {
	if version >= 0 {
		results, err := m.provider.DownTo(ctx, version)
		if err != nil {
			return err
		}
		return m.applied(results)
	}

	result, err := m.provider.Down(ctx)
	if err != nil {
		return err
	}
	return m.applied([]*goose.MigrationResult{result})
}

func (m *migrator) applied(results []*goose.MigrationResult) error {
	if !m.json {
		return nil
	}

	if results == nil {
		results = []*goose.MigrationResult{}
	}
	return m.encode(map[string]any{"applied": results})
}

func (m *migrator) status(ctx context.Context) error {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return err
	}

	if m.json {
		return m.encode(statuses)
	}

	w := tabwriter.NewWriter(m.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "APPLIED AT\tMIGRATION")
	for _, s := range statuses {
		appliedAt := "Pending"
		if s.State == goose.StateApplied {
			appliedAt = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\n", appliedAt, s.Source.Path)
	}
	return w.Flush()
}

// check fails while migrations are pending, so deployments can gate on it.
func (m *migrator) check(ctx context.Context) error {
	pending, err := m.provider.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to check pending migrations: %w", err)
	}

	current, verr := m.provider.GetDBVersion(ctx)

	if pending {
		if m.json {
			return m.encode(map[string]any{"status": "pending", "version": current})
		}
		if verr != nil {
			return fmt.Errorf("migrations are pending (failed to get current version: %v)", verr)
		}
		return fmt.Errorf("migrations are pending: current version %d", current)
	}

	if m.json {
		status := "ok"
		if verr != nil {
			status = "unknown"
		}
		return m.encode(map[string]any{"status": status, "version": current})
	}

	if verr != nil {
		fmt.Fprintln(m.out, "Database is up to date")
	} else {
		fmt.Fprintf(m.out, "Database is up to date (version %d)\n", current)
	}
	return nil
}

func (m *migrator) encode(v any) error {
	return json.NewEncoder(m.out).Encode(v)
}

func init() {
	migrateCmd.Flags().String("dsn", "", "PostgreSQL DSN connection string, defaults to $DSN")
	migrateCmd.Flags().StringP("format", "f", "text", "Output format (text or json)")

	rootCmd.AddCommand(migrateCmd)
}
