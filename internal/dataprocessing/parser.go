package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Required column headers, matched case-insensitively.
const (
	ColumnDate   = "Date"
	ColumnAmount = "Amount"
)

const utf8BOM = "\ufeff"

// Amount limits. Values must convert to a finite float64 for charting and
// fitting, with room left for daily sums.
const (
	// MaxAmountDigits is the most digits an amount may have before the point.
	MaxAmountDigits = 15
	// MaxAmountScale is the number of decimal places longer fractions are rounded to.
	MaxAmountScale = 12
	// maxAmountFraction is the longest fraction accepted at all.
	maxAmountFraction = 64
)

var (
	errAmountTooLarge = fmt.Errorf("amount must have at most %d digits before the decimal point", MaxAmountDigits)
	errAmountFraction = fmt.Errorf("amount must have at most %d decimal places", maxAmountFraction)
)

// table is the header plus data rows of an upload, independent of file format.
type table struct {
	header []string
	rows   [][]string
	// excelDates marks numeric date cells as spreadsheet serial numbers.
	excelDates bool
}

// Ingestor turns uploaded bytes into a sorted DatedSeries.
type Ingestor struct {
	logger *slog.Logger
}

// NewIngestor creates an ingestor.
func NewIngestor(logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{logger: infrastructure.WithComponent(logger, "ingestor")}
}

// Ingest parses an upload. Files ending in .xlsx are read as workbooks,
// everything else as CSV. The result is sorted by timestamp; records on the
// same timestamp keep their file order.
func (i *Ingestor) Ingest(ctx context.Context, upload domain.RawUpload) (domain.DatedSeries, error) {
	var (
		tbl *table
		err error
	)
	switch upload.Format() {
	case domain.FormatWorkbook:
		tbl, err = readWorkbook(upload.Data)
	default:
		tbl, err = readCSV(upload.Data)
	}
	if err != nil {
		return nil, err
	}

	series, err := parseTable(tbl)
	if err != nil {
		return nil, err
	}

	i.logger.InfoContext(ctx, "upload parsed",
		slog.String("filename", upload.Filename),
		slog.Int("bytes", len(upload.Data)),
		slog.Int("rows", len(series)),
		slog.Time("first", series[0].Timestamp),
		slog.Time("last", series[len(series)-1].Timestamp))

	return series, nil
}

func readCSV(data []byte) (*table, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.NewEmptyInputError("the uploaded file is empty")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, csvError(err)
	}

	tbl := &table{header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		tbl.rows = append(tbl.rows, record)
	}
	return tbl, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return apperrors.NewAppError(apperrors.ErrTypeParse,
			fmt.Sprintf("malformed CSV at line %d", pe.Line), err).
			WithContext("line", pe.Line)
	}
	return apperrors.NewAppError(apperrors.ErrTypeParse, "could not read CSV", err)
}

func readWorkbook(data []byte) (*table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeParse, "could not open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewEmptyInputError("the workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeParse,
			fmt.Sprintf("could not read sheet %q", sheets[0]), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewEmptyInputError("the uploaded file is empty")
	}

	return &table{header: rows[0], rows: rows[1:], excelDates: true}, nil
}

// parseTable maps the header, parses every non-blank row and sorts the result.
func parseTable(tbl *table) (domain.DatedSeries, error) {
	dateCol, amountCol := -1, -1
	for idx, name := range tbl.header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		switch {
		case strings.EqualFold(name, ColumnDate) && dateCol < 0:
			dateCol = idx
		case strings.EqualFold(name, ColumnAmount) && amountCol < 0:
			amountCol = idx
		}
	}

	var missing []string
	if dateCol < 0 {
		missing = append(missing, ColumnDate)
	}
	if amountCol < 0 {
		missing = append(missing, ColumnAmount)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing)
	}

	series := make(domain.DatedSeries, 0, len(tbl.rows))
	for idx, row := range tbl.rows {
		if blankRow(row) {
			continue
		}
		rowNum := idx + 1

		dateValue := cell(row, dateCol)
		ts, err := parseDate(dateValue, tbl.excelDates)
		if err != nil {
			return nil, apperrors.NewParseError(rowNum, ColumnDate, dateValue, err)
		}

		amountValue := cell(row, amountCol)
		amount, err := ParseAmount(amountValue)
		if err != nil {
			return nil, apperrors.NewParseError(rowNum, ColumnAmount, amountValue, err)
		}

		series = append(series, domain.TransactionRecord{Timestamp: ts, Amount: amount, Row: rowNum})
	}

	if len(series) == 0 {
		return nil, apperrors.NewEmptyInputError("the file has a header but no data rows")
	}

	sort.SliceStable(series, func(a, b int) bool {
		return series[a].Timestamp.Before(series[b].Timestamp)
	})
	return series, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseDate accepts the common textual layouts, month-first when ambiguous.
// Values without an offset are read as UTC.
func parseDate(value string, excelSerial bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	if excelSerial {
		if serial, err := strconv.ParseFloat(value, 64); err == nil {
			return excelize.ExcelDateToTime(serial, false)
		}
	}
	return dateparse.ParseIn(value, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
}

var amountReplacer = strings.NewReplacer(",", "", "$", "", "\u20ac", "", "\u00a3", "", " ", "", "\u00a0", "")

// ParseAmount parses a signed decimal amount. Currency symbols, thousands
// separators and accounting parentheses for negatives are accepted. Amounts
// outside the limits above are rejected.
func ParseAmount(value string) (decimal.Decimal, error) {
	s := amountReplacer.Replace(strings.TrimSpace(value))
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if d.Exponent() < -maxAmountFraction {
		return decimal.Zero, errAmountFraction
	}
	if d.Exponent() < -MaxAmountScale {
		d = d.Round(MaxAmountScale)
	}
	if err := checkMagnitude(d); err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// checkMagnitude rejects values with more than MaxAmountDigits integer digits
// without expanding the exponent.
func checkMagnitude(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	digits := len(strings.TrimPrefix(d.Coefficient().String(), "-"))
	if digits+int(d.Exponent()) > MaxAmountDigits {
		return errAmountTooLarge
	}
	return nil
}
