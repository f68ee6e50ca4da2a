// Package dataprocessing turns uploaded spending files into daily series.
//
// # Components
//
//  1. Ingestor: reads CSV (or .xlsx) bytes, validates the Date and Amount
//     columns and returns records sorted by timestamp.
//  2. Aggregator: sums amounts per calendar day and zero-fills the days
//     between the first and last observation.
//  3. Summarize: headline statistics for reports and the CLI.
//
// # Usage
//
//	ingestor := dataprocessing.NewIngestor(logger)
//	series, err := ingestor.Ingest(ctx, domain.RawUpload{Filename: "spend.csv", Data: data})
//	if err != nil {
//	    return err
//	}
//	daily, err := dataprocessing.NewAggregator(logger).Aggregate(ctx, series)
//
// # Input Format
//
// The header row must contain Date and Amount (case-insensitive); other
// columns are ignored. Dates are parsed flexibly (ISO 8601, slashed
// month-first, RFC 3339 with offsets, spreadsheet serials in workbooks).
// Amounts are signed decimals; currency symbols, thousands separators and
// accounting parentheses are accepted.
//
// # Errors
//
// Failures are *errors.AppError values of type SCHEMA, PARSE or EMPTY_INPUT.
// Parse errors carry the 1-based data row and the column name.
//
// Amounts stay in decimal form through aggregation so daily totals equal
// the input total exactly.
package dataprocessing
