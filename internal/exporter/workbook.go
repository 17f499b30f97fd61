package exporter

import (
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

const defaultSheet = "Sheet1"

// WriteWorkbook saves every table as a sheet of one XLSX file. Value cells
// that parse as numbers are stored as numbers, label columns stay text and
// empty cells stay blank.
func WriteWorkbook(path string, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewOutputError("failed to create header style", err)
	}

	for i, t := range tables {
		sheet := t.Sheet()
		if i == 0 {
			// a new file starts with one default sheet
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return apperrors.NewOutputError("failed to rename sheet", err).WithContext("sheet", sheet)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return apperrors.NewOutputError("failed to add sheet", err).WithContext("sheet", sheet)
		}

		if err := setRow(f, sheet, 1, t.Headers, len(t.Headers)); err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return apperrors.NewOutputError("failed to style header", err).WithContext("sheet", sheet)
		}
		for r, rec := range t.Records {
			if err := setRow(f, sheet, r+2, rec, t.Labels); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewOutputError("failed to save workbook", err).WithContext("path", path)
	}

	slog.Debug("Workbook saved", slog.String("path", path), slog.Int("sheets", len(tables)))
	return nil
}

// setRow writes values from column A; the first labels values are kept as strings
func setRow(f *excelize.File, sheet string, row int, values []string, labels int) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		switch {
		case i < labels:
			cells[i] = v
		case v == "":
			cells[i] = nil
		case v == "true" || v == "false":
			cells[i] = v == "true"
		default:
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				cells[i] = n
			} else {
				cells[i] = v
			}
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return apperrors.NewOutputError("invalid cell reference", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return apperrors.NewOutputError("failed to write row", err).
			WithContext("sheet", sheet).
			WithContext("row", row)
	}
	return nil
}
