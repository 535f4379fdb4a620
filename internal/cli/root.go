package cli

import (
	"context"

	"github.com/rogerio-castellano/shop-inventory/internal/app"
	"github.com/rogerio-castellano/shop-inventory/internal/config"
	"github.com/rogerio-castellano/shop-inventory/internal/logger"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
}

// NewRootCmd builds the inventoryctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Operator tool for the shop inventory store",
		Long:          "inventoryctl runs migrations, imports and exports spreadsheets, takes backups and resets passwords against the configured store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (default $INVENTORY_CONFIG)")

	root.AddCommand(
		newMigrateCmd(opts),
		newImportCmd(opts),
		newExportCmd(opts),
		newBackupCmd(opts),
		newPasswdCmd(opts),
	)
	return root
}

// Execute runs the CLI
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *options) load() (config.Config, error) {
	return config.Load(o.configPath)
}

func (o *options) open(ctx context.Context) (*app.App, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, logger.New(cfg.Log.Level, cfg.Log.Format))
}
