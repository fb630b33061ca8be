package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns kintaictl with every subcommand attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kintaictl",
		Short:         "Administer the kintai attendance ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("config", "", "path to YAML config (defaults to $KINTAI_CONFIG)")

	cmd.AddCommand(HashPasswordCmd())
	cmd.AddCommand(HolidaysCmd())
	cmd.AddCommand(SummaryCmd())
	cmd.AddCommand(PurgeCmd())
	cmd.AddCommand(InitTablesCmd())

	return cmd
}
