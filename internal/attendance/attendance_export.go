package attendance

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "集計"

var summaryHeader = []any{"年度", "職員名", "休暇種別", "件数", "時間", "日数"}

// WriteSummaryXLSX renders summary rows as a single-sheet workbook.
func WriteSummaryXLSX(w io.Writer, fiscalYear int, rows []SummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "F1", bold); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.FiscalYear, r.StaffName, r.LeaveType, r.Entries, r.Hours, r.Days}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "B", "C", 16); err != nil {
		return err
	}
	if fiscalYear != 0 {
		if err := f.SetDocProps(&excelize.DocProperties{Title: fmt.Sprintf("休暇集計 %d年度", fiscalYear)}); err != nil {
			return err
		}
	}
	return f.Write(w)
}
