package testutil

import (
	"fmt"
	"strings"
	"time"
)

// SampleCSV has two same-day rows and a one-day gap.
const SampleCSV = "Date,Amount\n2024-01-01,10\n2024-01-01,5\n2024-01-03,20\n"

// HeaderOnlyCSV has the required columns and no data rows.
const HeaderOnlyCSV = "Date,Amount\n"

// MissingAmountCSV lacks the Amount column.
const MissingAmountCSV = "Date,Description\n2024-01-01,coffee\n"

// SpendingCSV generates a deterministic daily spending history of n rows
// starting at start (YYYY-MM-DD), with a weekly pattern and a mild upward drift.
func SpendingCSV(start string, n int) string {
	day, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic(err)
	}

	var b strings.Builder
	b.WriteString("Date,Amount,Description\n")
	for i := 0; i < n; i++ {
		amount := 20.0 + float64(i)*0.75 + float64((i*7)%5)*3.25
		fmt.Fprintf(&b, "%s,%.2f,item %d\n", day.AddDate(0, 0, i).Format("2006-01-02"), amount, i)
	}
	return b.String()
}
