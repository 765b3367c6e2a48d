package store

import (
	"github.com/xuri/excelize/v2"

	"github.com/san-kum/pendlab/internal/analysis"
)

// ExportSweepXLSX writes a 1-D sweep as a single worksheet of
// (value, observable, crossing index) rows.
func ExportSweepXLSX(path string, res *analysis.SweepResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "sweep"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	if err := setRow(f, sheet, 1, res.Dim.String(), "observable", "crossing_index"); err != nil {
		return err
	}
	for i, p := range res.Points {
		if err := setRow(f, sheet, i+2, p.Value, p.Observable, p.CrossingIndex); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// ExportSweep2DXLSX writes the flat observable grid on one sheet and
// the per-row envelope on a second.
func ExportSweep2DXLSX(path string, res *analysis.Sweep2DResult) error {
	f := excelize.NewFile()
	defer f.Close()

	grid := "grid"
	if err := f.SetSheetName("Sheet1", grid); err != nil {
		return err
	}
	if err := setRow(f, grid, 1, "phi1", "phi2", "observable"); err != nil {
		return err
	}
	for i, tr := range res.Triples {
		if err := setRow(f, grid, i+2, tr.V1, tr.V2, tr.Observable); err != nil {
			return err
		}
	}

	env := "envelope"
	if _, err := f.NewSheet(env); err != nil {
		return err
	}
	if err := setRow(f, env, 1, "phi1", "max", "argmax_phi2", "min", "argmin_phi2"); err != nil {
		return err
	}
	for i, row := range res.Rows {
		if !row.Valid {
			continue
		}
		if err := setRow(f, env, i+2, row.V1, row.Max, row.ArgMax, row.Min, row.ArgMin); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
