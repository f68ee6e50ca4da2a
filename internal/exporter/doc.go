// Package exporter writes the daily and forecast tables of an analysis as
// CSV or as an Excel workbook.
//
// CSVWriter is the low level writer with optional UTF-8 BOM for Excel.
// Exporter picks a Format and produces either a single CSV with one row per
// day (observed days first, then projected days) or a workbook with Daily,
// Forecast and Model sheets.
//
// Example usage:
//
//	exp := exporter.New(logger)
//	meta, err := exp.Export(w, analysis, exporter.FormatXLSX)
package exporter
