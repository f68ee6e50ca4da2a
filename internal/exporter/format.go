package exporter

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// formatFloat formats a float64 with exactly 2 decimal places.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatDecimal formats an amount with exactly 2 decimal places.
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDay(d civil.Date) string {
	return d.In(time.UTC).Format(dayLayout)
}
