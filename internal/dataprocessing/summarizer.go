package dataprocessing

import (
	"github.com/shopspring/decimal"

	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Summarize computes headline statistics of daily. The mean is rounded to cents.
func Summarize(daily domain.DailySeries) domain.SpendingSummary {
	summary := domain.SpendingSummary{Days: len(daily), Total: daily.Total()}
	if len(daily) == 0 {
		return summary
	}

	summary.MaxDay = daily[0].Day
	summary.MaxAmount = daily[0].Amount
	for _, p := range daily {
		if !p.Amount.IsZero() {
			summary.ActiveDays++
		}
		if p.Amount.GreaterThan(summary.MaxAmount) {
			summary.MaxDay = p.Day
			summary.MaxAmount = p.Amount
		}
	}
	summary.DailyMean = summary.Total.Div(decimal.NewFromInt(int64(len(daily)))).Round(2)
	return summary
}
