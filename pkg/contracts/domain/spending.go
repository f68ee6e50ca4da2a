package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// RawUpload is an uploaded file held in memory for one pipeline run.
type RawUpload struct {
	Filename string
	Data     []byte
}

// Upload formats, named by the extension that selects them.
const (
	FormatCSV      = ".csv"
	FormatWorkbook = ".xlsx"
)

// Extension returns the lower-cased filename extension including the dot.
func (u RawUpload) Extension() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}

// Format returns FormatWorkbook for .xlsx files and FormatCSV for any other
// name, so text exports saved as .txt or without an extension still parse.
func (u RawUpload) Format() string {
	if u.Extension() == FormatWorkbook {
		return FormatWorkbook
	}
	return FormatCSV
}

// TransactionRecord is one parsed input row.
type TransactionRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Amount    decimal.Decimal `json:"amount"`
	// Row is the 1-based data row the record came from.
	Row int `json:"row"`
}

// Day returns the calendar day of the timestamp in its own location.
func (r TransactionRecord) Day() civil.Date {
	return civil.DateOf(r.Timestamp)
}

// DatedSeries is ordered by timestamp ascending, ties kept in row order.
type DatedSeries []TransactionRecord

// Total sums every amount exactly.
func (s DatedSeries) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s {
		total = total.Add(r.Amount)
	}
	return total
}

// DailyPoint is the summed spending of one calendar day.
type DailyPoint struct {
	Day    civil.Date      `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// DailySeries holds one point per day over a contiguous range.
type DailySeries []DailyPoint

// Values returns the amounts as float64 for numeric work.
func (s DailySeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Amount.InexactFloat64()
	}
	return out
}

// Total sums every amount exactly.
func (s DailySeries) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s {
		total = total.Add(p.Amount)
	}
	return total
}

// LastDay returns the final day of the series. It panics on an empty series.
func (s DailySeries) LastDay() civil.Date {
	return s[len(s)-1].Day
}

// CheckContiguous verifies that days increase by exactly one.
func (s DailySeries) CheckContiguous() error {
	for i := 1; i < len(s); i++ {
		if s[i].Day != s[i-1].Day.AddDays(1) {
			return fmt.Errorf("daily series not contiguous at index %d: %s follows %s", i, s[i].Day, s[i-1].Day)
		}
	}
	return nil
}

// ForecastPoint is one projected day.
type ForecastPoint struct {
	Day   civil.Date `json:"date"`
	Value float64    `json:"value"`
}

// ForecastSeries holds consecutive projected days following the history.
type ForecastSeries []ForecastPoint

// Values returns the projected values.
func (s ForecastSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// ModelParameters describes a fitted damped trend model.
type ModelParameters struct {
	Alpha        float64 `json:"alpha"`
	Beta         float64 `json:"beta"`
	Phi          float64 `json:"phi"`
	InitialLevel float64 `json:"initial_level"`
	InitialTrend float64 `json:"initial_trend"`
	Level        float64 `json:"level"`
	Trend        float64 `json:"trend"`
	SSE          float64 `json:"sse"`
	Evaluations  int     `json:"evaluations"`
}

// ImagePayload is an encoded raster image ready for embedding.
type ImagePayload struct {
	MIMEType string `json:"mime_type"`
	// Base64 is the standard base64 encoding of the image bytes.
	Base64 string `json:"base64"`
}

// DataURI returns the payload as a data: URI.
func (p ImagePayload) DataURI() string {
	return "data:" + p.MIMEType + ";base64," + p.Base64
}

// SpendingSummary holds headline statistics of a daily series.
type SpendingSummary struct {
	Days       int             `json:"days"`
	ActiveDays int             `json:"active_days"`
	Total      decimal.Decimal `json:"total"`
	DailyMean  decimal.Decimal `json:"daily_mean"`
	MaxDay     civil.Date      `json:"max_day"`
	MaxAmount  decimal.Decimal `json:"max_amount"`
}

// Analysis is the result of one successful pipeline run.
type Analysis struct {
	RunID         string          `json:"run_id"`
	Filename      string          `json:"filename"`
	Rows          int             `json:"rows"`
	Daily         DailySeries     `json:"daily"`
	Forecast      ForecastSeries  `json:"forecast"`
	Summary       SpendingSummary `json:"summary"`
	Model         ModelParameters `json:"model"`
	HistoryChart  ImagePayload    `json:"history_chart"`
	ForecastChart ImagePayload    `json:"forecast_chart"`
}
