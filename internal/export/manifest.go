package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	unitsSheet = "Units"
	stopsSheet = "Stops"
)

// ExportManifest writes the sheet as an Excel workbook with one sheet
// listing every cargo unit and one listing the route with the number of
// pallets aboard after each stop. The Stops sheet uses the same column
// names the stop importer recognizes.
func ExportManifest(path string, sheet LoadSheet) error {
	if len(sheet.Units) == 0 {
		return fmt.Errorf("no cargo units to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), unitsSheet); err != nil {
		return err
	}
	unitRows := [][]interface{}{
		{"Unit", "Owner", "Label", "X", "Y", "Length", "Width", "Rotated", "Status", "Weight"},
	}
	for _, u := range sheet.Units {
		unitRows = append(unitRows, []interface{}{
			u.ID, u.OwnerID, u.Label, u.Rect.X, u.Rect.Y, u.Rect.W, u.Rect.H, u.Rotated, u.Flags(), u.Spec.WeightKg,
		})
	}
	if err := writeRows(f, unitsSheet, unitRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(stopsSheet); err != nil {
		return err
	}
	stopRows := [][]interface{}{
		{"Stop", "Order", "Owner", "Kind", "Count", "Label", "Aboard"},
	}
	aboard := make(map[string]int, len(sheet.Timeline))
	for _, snap := range sheet.Timeline {
		aboard[snap.Stop.ID] = len(snap.Units)
	}
	for _, s := range sheet.Stops {
		stopRows = append(stopRows, []interface{}{
			s.ID, s.OrderIndex, s.OwnerID, s.Kind.String(), s.PalletCount(), s.Label, aboard[s.ID],
		})
	}
	if err := writeRows(f, stopsSheet, stopRows); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for _, name := range []string{unitsSheet, stopsSheet} {
		if err := f.SetRowStyle(name, 1, 1, style); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// writeRows writes rows starting at A1.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
