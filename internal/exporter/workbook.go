package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	SheetDaily    = "Daily"
	SheetForecast = "Forecast"
	SheetModel    = "Model"
)

// writeWorkbook writes an xlsx with one sheet per table. Amounts are stored
// as numbers so spreadsheets can chart them directly.
func writeWorkbook(w io.Writer, a *domain.Analysis) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetDaily); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetForecast, SheetModel} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	daily := make([][]any, len(a.Daily))
	for i, p := range a.Daily {
		daily[i] = []any{formatDay(p.Day), p.Amount.InexactFloat64()}
	}
	forecast := make([][]any, len(a.Forecast))
	for i, p := range a.Forecast {
		forecast[i] = []any{formatDay(p.Day), p.Value}
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]any
		numeric bool
	}{
		{SheetDaily, dailyHeaders, daily, true},
		{SheetForecast, forecastHeaders, forecast, true},
		{SheetModel, modelHeaders, modelRows(a), false},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.headers, s.rows); err != nil {
			return err
		}
		if err := f.SetCellStyle(s.name, "A1", "B1", bold); err != nil {
			return fmt.Errorf("style %s header: %w", s.name, err)
		}
		if s.numeric && len(s.rows) > 0 {
			last, _ := excelize.CoordinatesToCellName(2, len(s.rows)+1)
			if err := f.SetCellStyle(s.name, "B2", last, money); err != nil {
				return fmt.Errorf("style %s values: %w", s.name, err)
			}
		}
		if err := f.SetColWidth(s.name, "A", "B", 16); err != nil {
			return fmt.Errorf("size %s columns: %w", s.name, err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
