// Package report exports run statistics as an .xlsx workbook.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"shopsim/internal/simulation"
)

const (
	DailySheet = "Daily"
	RunSheet   = "Run"
)

var dailyHeaders = []string{
	"Date",
	"New Members",
	"Population",
	"Promoted",
	"Quit",
	"Active Free",
	"Active Paid",
	"Free Logins",
	"Paid Logins",
	"Free Purchases",
	"Paid Purchases",
	"Revenue",
}

// Write renders the workbook of summary to w.
func Write(w io.Writer, summary *simulation.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeDaily(f, summary); err != nil {
		return err
	}
	if err := writeRun(f, summary); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(DailySheet)
	if err != nil {
		return fmt.Errorf("failed to look up sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook of summary to path.
func WriteFile(path string, summary *simulation.Summary) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	if err := Write(out, summary); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeDaily(f *excelize.File, summary *simulation.Summary) error {
	if _, err := f.NewSheet(DailySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range dailyHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(DailySheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(DailySheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(dailyHeaders))
	if err != nil {
		return fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetColWidth(DailySheet, "A", lastCol, 15); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	for i, d := range summary.Days {
		row := []any{
			d.Date.Format(time.DateOnly),
			d.NewMembers,
			d.Population,
			d.Promoted,
			d.Quit,
			d.ActiveFree,
			d.ActivePaid,
			d.FreeLogins,
			d.PaidLogins,
			d.FreePurchases,
			d.PaidPurchases,
			d.Revenue,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(DailySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(DailySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

func writeRun(f *excelize.File, summary *simulation.Summary) error {
	if _, err := f.NewSheet(RunSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	totals := summary.Totals()
	rows := [][]any{
		{"Run ID", summary.RunID.String()},
		{"Seed", fmt.Sprint(summary.Seed)},
		{"Start", summary.Start.Format(time.DateOnly)},
		{"End", summary.End.Format(time.DateOnly)},
		{"Members Only", summary.MembersOnly},
		{"Annual Growth %", (summary.AnnualMultiplier - 1) * 100},
		{"Daily Growth %", summary.DailyRate * 100},
		{"Products", summary.Products},
		{"New Members", totals.NewMembers},
		{"Population", totals.Population},
		{"Promoted", totals.Promoted},
		{"Quit", totals.Quit},
		{"Logins", totals.Logins()},
		{"Purchases", totals.Purchases()},
		{"Revenue", totals.Revenue},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(RunSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write run row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(RunSheet, "A", "B", 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}
