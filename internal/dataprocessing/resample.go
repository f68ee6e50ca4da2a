package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/config"
	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Aggregator resamples a DatedSeries to one summed value per calendar day.
type Aggregator struct {
	logger  *slog.Logger
	maxDays int
}

// NewAggregator creates a daily aggregator limited to config.DefaultMaxDays.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		logger:  infrastructure.WithComponent(logger, "aggregator"),
		maxDays: config.DefaultMaxDays,
	}
}

// WithMaxDays sets the longest first to last day span Aggregate accepts.
// Zero or less removes the limit.
func (a *Aggregator) WithMaxDays(n int) *Aggregator {
	a.maxDays = n
	return a
}

// Aggregate sums amounts per calendar day and returns every day from the
// first to the last observed day inclusive. Days without records are zero.
func (a *Aggregator) Aggregate(ctx context.Context, series domain.DatedSeries) (domain.DailySeries, error) {
	if len(series) == 0 {
		return nil, apperrors.NewEmptyInputError("there are no transactions to aggregate")
	}

	sums := make(map[civil.Date]decimal.Decimal, len(series))
	first, last := series[0].Day(), series[0].Day()
	for _, record := range series {
		day := record.Day()
		sum := record.Amount
		if prev, ok := sums[day]; ok {
			sum = prev.Add(record.Amount)
		}
		if err := checkMagnitude(sum); err != nil {
			return nil, apperrors.NewParseError(record.Row, ColumnAmount, record.Amount.String(),
				fmt.Errorf("daily total for %s: %w", day, err))
		}
		sums[day] = sum
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	span := last.DaysSince(first) + 1
	if a.maxDays > 0 && span > a.maxDays {
		return nil, apperrors.NewDateRangeError(first.String(), last.String(), span, a.maxDays)
	}

	daily := make(domain.DailySeries, 0, span)
	for day := first; !day.After(last); day = day.AddDays(1) {
		amount, ok := sums[day]
		if !ok {
			amount = decimal.Zero
		}
		daily = append(daily, domain.DailyPoint{Day: day, Amount: amount})
	}

	a.logger.InfoContext(ctx, "daily series built",
		slog.String("first_day", first.String()),
		slog.String("last_day", last.String()),
		slog.Int("days", len(daily)),
		slog.Int("active_days", len(sums)),
		slog.Int("filled_days", len(daily)-len(sums)))

	return daily, nil
}
