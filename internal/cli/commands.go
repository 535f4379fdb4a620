package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rogerio-castellano/shop-inventory/internal/backup"
	"github.com/rogerio-castellano/shop-inventory/internal/db"
	"github.com/rogerio-castellano/shop-inventory/internal/spreadsheet"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := db.Migrate(cfg.DB.Driver, cfg.DB.DSN); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s schema is up to date\n", cfg.DB.Driver)
			return nil
		},
	}
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import products from an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := spreadsheet.FormatOf(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := spreadsheet.NewImporter(a.Products, a.Log).Import(cmd.Context(), f, format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ %d rows imported, %d failed\n", result.Succeeded, result.Failed)
			for _, msg := range result.Errors {
				fmt.Fprintf(out, "  %s\n", msg)
			}
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var (
		priceList bool
		formatArg string
		outPath   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export products or the price list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := spreadsheet.ParseFormat(formatArg)
			if err != nil {
				return err
			}

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if outPath == "" {
				outPath = spreadsheet.ExportFileName(time.Now(), format)
				if priceList {
					outPath = spreadsheet.PriceListFileName(format)
				}
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}

			exporter := spreadsheet.NewExporter(a.Products)
			if priceList {
				err = exporter.PriceList(cmd.Context(), f, format)
			} else {
				err = exporter.Products(cmd.Context(), f, format)
			}
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&priceList, "price-list", false, "export the price list instead of the product sheet")
	cmd.Flags().StringVar(&formatArg, "format", "xlsx", "xlsx or csv")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default depends on the export)")
	return cmd
}

func newBackupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the store file into the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.DB.Driver != db.DriverSQLite {
				return backup.ErrBackupUnsupported
			}

			path, err := backup.Snapshot(db.SQLitePath(cfg.DB.DSN), cfg.Backup.Dir, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ backup written to %s\n", path)
			return nil
		},
	}
}

func newPasswdCmd(opts *options) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "passwd <username>",
		Short: "Set a user's password",
		Long:  "Sets a user's password without asking for the current one. The new password is read from --password or the first line of stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("no password given: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Auth.SetPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ password updated for %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}
