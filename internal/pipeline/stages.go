package pipeline

import (
	"context"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/forecast"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Stage names, in execution order.
const (
	StageIngest         = "ingest"
	StageAggregate      = "aggregate"
	StageRenderHistory  = "render_history"
	StageForecast       = "forecast"
	StageRenderForecast = "render_forecast"
)

// Stages lists every stage in execution order.
var Stages = []string{StageIngest, StageAggregate, StageRenderHistory, StageForecast, StageRenderForecast}

// Ingestor parses an upload into dated records.
type Ingestor interface {
	Ingest(ctx context.Context, upload domain.RawUpload) (domain.DatedSeries, error)
}

// Aggregator resamples records to one value per day.
type Aggregator interface {
	Aggregate(ctx context.Context, series domain.DatedSeries) (domain.DailySeries, error)
}

// Forecaster fits a trend model and projects it.
type Forecaster interface {
	Forecast(ctx context.Context, daily domain.DailySeries) (domain.ForecastSeries, *forecast.Model, error)
}

// Renderer draws the two charts.
type Renderer interface {
	RenderHistory(ctx context.Context, daily domain.DailySeries) (domain.ImagePayload, error)
	RenderForecast(ctx context.Context, daily domain.DailySeries, fc domain.ForecastSeries) (domain.ImagePayload, error)
}
