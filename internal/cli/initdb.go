package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"noteapp/internal/db"
	"noteapp/internal/notes"
)

func newInitDBCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the notes table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			gdb, err := db.Open(ctx, cfg.ConnectionURL(), db.Options{Logger: logger})
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			if err := notes.NewRepo(gdb).Migrate(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Database tables created successfully (%s)\n", cfg.Mode)
			return nil
		},
	}
}
