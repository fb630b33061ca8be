package cli

import (
	"fmt"

	"go-kintai/internal/tablestore"

	"github.com/spf13/cobra"
)

func InitTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-tables",
		Short: "Create missing tables and write canonical headers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCLI(cmd, func(c *CLI) error {
				a := c.App
				err := tablestore.Provision(cmd.Context(), a.Backend,
					tablestore.WithRetryPolicy(a.Config.RetryPolicy()),
					tablestore.WithLogger(a.Logger),
				)
				if err != nil {
					return err
				}
				for _, t := range tablestore.Tables() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\n", t, t.Columns())
				}
				return nil
			})
		},
	}
}
