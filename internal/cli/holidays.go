package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"go-kintai/internal/holiday"

	"github.com/spf13/cobra"
)

func HolidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List Japanese public holidays of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			asJSON, _ := cmd.Flags().GetBool("json")
			if year == 0 {
				year = time.Now().Year()
			}
			if year < 1948 || year > 2999 {
				return fmt.Errorf("year %d out of range", year)
			}

			days := holiday.ForYear(year)
			out := cmd.OutOrStdout()
			if asJSON {
				type row struct {
					Date string `json:"date"`
					Name string `json:"name"`
				}
				rows := make([]row, 0, len(days))
				for _, d := range days {
					rows = append(rows, row{Date: d.DateString(), Name: d.Name})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			for _, d := range days {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", d.DateString(), d.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "calendar year (defaults to the current year)")
	cmd.Flags().Bool("json", false, "output in JSON format")
	return cmd
}
