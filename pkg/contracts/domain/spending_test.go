package domain

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRawUploadExtension(t *testing.T) {
	assert.Equal(t, ".csv", RawUpload{Filename: "Spending.CSV"}.Extension())
	assert.Equal(t, ".xlsx", RawUpload{Filename: "dir/book.xlsx"}.Extension())
	assert.Equal(t, "", RawUpload{Filename: "noext"}.Extension())
}

func TestRawUploadFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"Spending.CSV", FormatCSV},
		{"dir/book.XLSX", FormatWorkbook},
		{"spending.txt", FormatCSV},
		{"noext", FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, RawUpload{Filename: tt.filename}.Format())
		})
	}
}

func TestTransactionRecordDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	r := TransactionRecord{Timestamp: time.Date(2024, 3, 1, 23, 30, 0, 0, loc)}
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 1}, r.Day())
}

func TestDailySeriesHelpers(t *testing.T) {
	d := civil.Date{Year: 2024, Month: time.January, Day: 30}
	s := DailySeries{
		{Day: d, Amount: decimal.RequireFromString("10.10")},
		{Day: d.AddDays(1), Amount: decimal.Zero},
		{Day: d.AddDays(2), Amount: decimal.RequireFromString("-0.10")},
	}

	assert.NoError(t, s.CheckContiguous())
	assert.True(t, s.Total().Equal(decimal.RequireFromString("10")))
	assert.Equal(t, []float64{10.1, 0, -0.1}, s.Values())
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 1}, s.LastDay())

	gap := DailySeries{s[0], s[2]}
	assert.Error(t, gap.CheckContiguous())
}

func TestImagePayloadDataURI(t *testing.T) {
	p := ImagePayload{MIMEType: "image/png", Base64: "iVBORw0KGgo="}
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", p.DataURI())
}
