package db

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwantia/lensdb/cmd/lensdb/cli/render"
	"github.com/mwantia/lensdb/internal/agent"
	config "github.com/mwantia/lensdb/internal/config/server"
	"github.com/mwantia/lensdb/pkg/db/models"
	"github.com/mwantia/lensdb/pkg/db/store"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewDatabaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the lens database",
		Long: `Manage the SQLite lens database.

Lenses are imported from JSON or CSV, and exported as the JSON data file
served to clients.`,
	}

	cmd.PersistentFlags().String("db", "", "database file (overrides metadata.sqlite.path)")
	viper.BindPFlag("metadata.sqlite.path", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newRollbackCommand())
	cmd.AddCommand(newImportCommand())
	cmd.AddCommand(newExportCommand())

	return cmd
}

// openStore connects to the configured database with migrations applied.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return agent.OpenStore(ctx, cfg)
}

// openRawStore connects without migrating so status and rollback see the
// database as it is.
func openRawStore(ctx context.Context) (*store.SQLiteStore, error) {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	st, err := store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.Metadata.SQLite.Path})
	if err != nil {
		return nil, err
	}
	if err := st.Connect(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openRawStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			applied, err := st.Migrate(cmd.Context())
			if err != nil {
				return err
			}

			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
				return nil
			}
			for _, version := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied migration %d\n", version)
			}
			return nil
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openRawStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			statuses, err := st.MigrationStatus(cmd.Context())
			if err != nil {
				return err
			}

			table := render.NewTable("Version", "Description", "Applied")
			for _, s := range statuses {
				applied := "pending"
				if s.Applied {
					applied = s.AppliedAt.Format(time.RFC3339)
				}
				table.AddRow(fmt.Sprint(s.Version), s.Description, applied)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), table.String())
			return err
		},
	}
}

func newRollbackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Roll back the last applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openRawStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			version, err := st.Rollback(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back migration %d\n", version)
			return nil
		},
	}
}

func newImportCommand() *cobra.Command {
	var strict, merge bool
	var format, maker, mount string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import lenses from a JSON, CSV or spec sheet file",
		Long: `Import lenses from a JSON data file, a CSV sheet or a maker spec sheet.

By default the database content is replaced. With --merge each lens is
inserted or updated by id instead. CSV rows without an id are numbered
after the highest id in the file.

A spec sheet is a CSV of the text maker sites publish, such as "∞ to 0.2 m"
or "1:2". Column titles are matched against the titles makers use, and
--maker and --mount fill columns the sheet does not carry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := lens.SpecSheet{}
			if maker != "" {
				defaults["maker"] = maker
			}
			if mount != "" {
				defaults["mount"] = mount
			}

			result, err := readLenses(args[0], format, defaults, strict)
			if err != nil {
				return err
			}
			for _, dropped := range result.Dropped {
				fmt.Fprintf(cmd.ErrOrStderr(), "Skipping: %v\n", dropped)
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			lenses := make([]models.Lens, 0, len(result.Records))
			for _, rec := range result.Records {
				lenses = append(lenses, models.FromRecord(rec))
			}

			if merge {
				for i := range lenses {
					if err := st.SaveLens(cmd.Context(), &lenses[i]); err != nil {
						return fmt.Errorf("failed to save lens '%s': %w", lenses[i].Name, err)
					}
				}
			} else if err := st.ReplaceLenses(cmd.Context(), lenses); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d lenses from %s\n", len(lenses), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "abort on the first malformed entry")
	cmd.Flags().BoolVar(&merge, "merge", false, "upsert by id instead of replacing all lenses")
	cmd.Flags().StringVar(&format, "format", "", "input format: json, csv or specsheet (default: by file extension)")
	cmd.Flags().StringVar(&maker, "maker", "", "maker for spec sheet rows without one")
	cmd.Flags().StringVar(&mount, "mount", "", "mount for spec sheet rows without one")

	return cmd
}

func readLenses(path, format string, defaults lens.SpecSheet, strict bool) (*lens.DecodeResult, error) {
	if format == "" {
		format = "json"
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			format = "csv"
		}
	}

	switch strings.ToLower(format) {
	case "json":
		return lens.DecodeFile(path, strict)
	case "csv", "specsheet":
	default:
		return nil, fmt.Errorf("unknown import format '%s'", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(format, "specsheet") {
		return lens.ReadSpecSheetCSV(f, defaults, strict)
	}
	return lens.ReadCSV(f, strict)
}

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export lenses as the JSON data file",
		Long:  "Export all lenses ordered by id. Without a file the data is written to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			lenses, err := st.ListLenses(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				defer f.Close()
				w = f
			}

			if err := lens.Encode(w, models.Records(lenses)); err != nil {
				return err
			}
			if len(args) == 1 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d lenses to %s\n", len(lenses), args[0])
			}
			return nil
		},
	}

	return cmd
}
