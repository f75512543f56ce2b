package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/trucker-logbook/internal/repo"
	"github.com/pkordes/trucker-logbook/internal/service"
)

var errResetNotConfirmed = errors.New("refusing to delete all data without --yes")

func newResetCmd(opts *rootOptions) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every trip, log entry, daily summary, and configuration",
		Long: `reset empties all logbook tables. The schema is kept. Use it to give a
demo or staging database a clean slate; there is no undo.`,
		Example: `  dbtool reset --yes
  dbtool --database-url postgres://localhost/logbook reset --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errResetNotConfirmed
			}
			pool, err := opts.openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			admin := service.NewAdminService(repo.NewAdminRepo(pool), log)
			if err := admin.ResetAllData(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all logbook data deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion of all data")
	return cmd
}
