package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/db"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations",
	}
	migrateRollback bool
	migrateStatus   bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration")
	migrateCmd.Flags().BoolVarP(&migrateStatus, "status", "s", false, "print migration status and exit")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	_, lg, conn, err := bootstrap()
	if err != nil {
		return err
	}
	defer conn.Close()

	command := "up"
	switch {
	case migrateStatus:
		command = "status"
	case migrateRollback:
		command = "down"
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := db.Migrate(ctx, conn, command); err != nil {
		lg.Error("migration failed", "command", command, "error", err)
		return err
	}

	lg.Info("migration finished", "command", command)
	return nil
}
