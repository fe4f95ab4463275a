package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bgoddard/lilypad/internal/storage"
	"github.com/bgoddard/lilypad/internal/sweep"
)

var xlsxColumns = []string{
	"pos2", "pos3", "radius", "m21", "m32", "s22", "k21", "k32", "vout", "power",
}

// XLSXToFile writes a workbook with a Summary sheet (configuration and
// best arrangement) and a Results sheet holding every evaluated row.
func XLSXToFile(path string, meta storage.RunMetadata, rows []sweep.Row) error {
	f := excelize.NewFile()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)

	kv := [][2]interface{}{
		{"run", meta.ID},
		{"kind", meta.Kind},
		{"gap (m)", meta.Gap},
		{"tx radius (m)", meta.TxRadius},
		{"points", meta.Points},
		{"dl (m)", meta.DL},
		{"frequency (Hz)", meta.Frequency},
		{"load (ohm)", meta.Load},
		{"rows", meta.Rows},
		{"best vout (V)", meta.Best.Vout},
		{"best power (W)", meta.Best.Power},
		{"best radius (m)", meta.Best.Radius},
		{"best pos2 (m)", meta.Best.Pos2},
	}
	for i, pair := range kv {
		f.SetCellValue(summary, fmt.Sprintf("A%d", i+1), pair[0])
		f.SetCellValue(summary, fmt.Sprintf("B%d", i+1), pair[1])
	}

	results := "Results"
	if _, err := f.NewSheet(results); err != nil {
		return err
	}

	f.SetCellValue(results, "A1", "No")
	for i, col := range xlsxColumns {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(results, cell, col)
	}

	for i, r := range rows {
		vals := []float64{r.Pos2, r.Pos3, r.Radius, r.M21, r.M32, r.S22, r.K21, r.K32, r.Vout, r.Power}
		rowNum := i + 2
		f.SetCellValue(results, fmt.Sprintf("A%d", rowNum), i+1)
		for j, v := range vals {
			cell, err := excelize.CoordinatesToCellName(j+2, rowNum)
			if err != nil {
				return err
			}
			f.SetCellValue(results, cell, v)
		}
	}

	return f.SaveAs(path)
}
