package cli

import (
	"fmt"

	"go-kintai/internal/attendance"
	"go-kintai/internal/bulletin"
	"go-kintai/internal/event"
	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/tablestore"

	"github.com/spf13/cobra"
)

func PurgeCmd() *cobra.Command {
	valid := make([]string, 0, len(tablestore.Tables()))
	for _, t := range tablestore.Tables() {
		valid = append(valid, string(t))
	}

	cmd := &cobra.Command{
		Use:       "purge <table>",
		Short:     "Delete every data row of a table, keeping its header",
		Args:      cobra.ExactArgs(1),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, ok := tablestore.ParseTable(args[0])
			if !ok {
				return fmt.Errorf("unknown table %q (want one of %v)", args[0], valid)
			}
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("refusing to purge %s without --yes", table)
			}

			return withCLI(cmd, func(c *CLI) error {
				a := c.App
				ctx := contextutil.WithActor(cmd.Context(), cliActor)

				var err error
				switch table {
				case tablestore.AttendanceLogs:
					err = attendance.NewService(attendance.NewRepository(a.Store), a.Rules, a.Idempotency, a.Publisher, a.Logger).Purge(ctx)
				case tablestore.Events:
					err = event.NewService(event.NewRepository(a.Store), a.Publisher, a.Logger).Purge(ctx)
				case tablestore.BulletinBoard:
					err = bulletin.NewService(bulletin.NewRepository(a.Store, a.Config.Location()), a.Publisher, a.Logger).Purge(ctx)
				default:
					err = a.Store.Purge(ctx, table)
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", table)
				return err
			})
		},
	}
	cmd.Flags().Bool("yes", false, "confirm the purge")
	return cmd
}
