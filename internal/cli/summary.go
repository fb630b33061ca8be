package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"go-kintai/internal/attendance"
	"go-kintai/internal/shared/contextutil"

	"github.com/spf13/cobra"
)

// cliActor is recorded in logs and change notifications for CLI writes.
var cliActor = contextutil.Actor{ID: "kintaictl", Name: "kintaictl", Role: contextutil.RoleAdmin}

func SummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total leave per staff member and type",
		Long: `Total leave day equivalents per staff member, leave type and fiscal year.

Examples:
  # Print every fiscal year
  kintaictl summary

  # Write one fiscal year to a spreadsheet
  kintaictl summary --fiscal-year=2024 --out=summary-2024.xlsx
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fiscalYear, _ := cmd.Flags().GetInt("fiscal-year")
			outPath, _ := cmd.Flags().GetString("out")

			return withCLI(cmd, func(c *CLI) error {
				a := c.App
				svc := attendance.NewService(
					attendance.NewRepository(a.Store), a.Rules, a.Idempotency, a.Publisher, a.Logger,
				)
				ctx := contextutil.WithActor(cmd.Context(), cliActor)

				if outPath != "" {
					f, err := os.Create(outPath)
					if err != nil {
						return err
					}
					if err := svc.ExportSummary(ctx, fiscalYear, f); err != nil {
						_ = f.Close()
						return err
					}
					if err := f.Close(); err != nil {
						return err
					}
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
					return err
				}

				rows, err := svc.Summary(ctx, fiscalYear)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "FISCAL YEAR\tSTAFF\tTYPE\tENTRIES\tHOURS\tDAYS")
				for _, r := range rows {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f\t%.2f\n",
						r.FiscalYear, r.StaffName, r.LeaveType, r.Entries, r.Hours, r.Days)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().Int("fiscal-year", 0, "fiscal year to report (0 for all)")
	cmd.Flags().String("out", "", "write an .xlsx file instead of printing")
	return cmd
}
