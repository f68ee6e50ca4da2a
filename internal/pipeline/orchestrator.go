package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/charts"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/config"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/dataprocessing"
	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/forecast"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// unclassified labels stage failures that carry no AppError type.
const unclassified = "UNCLASSIFIED"

// Orchestrator sequences the pipeline stages.
type Orchestrator struct {
	ingestor   Ingestor
	aggregator Aggregator
	forecaster Forecaster
	renderer   Renderer

	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithTracer sets the tracer used for run and stage spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithMetrics sets the instruments that receive run and stage measurements.
func WithMetrics(metrics *infrastructure.PipelineMetrics) Option {
	return func(o *Orchestrator) { o.metrics = metrics }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = infrastructure.WithComponent(logger, "pipeline")
		}
	}
}

// New wires an orchestrator from explicit stage implementations.
func New(ing Ingestor, agg Aggregator, fc Forecaster, rend Renderer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ingestor:   ing,
		aggregator: agg,
		forecaster: fc,
		renderer:   rend,
		tracer:     tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
		logger:     infrastructure.WithComponent(slog.Default(), "pipeline"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewFromConfig builds the standard stages from application config. The
// forecast horizon and model family stay at their defaults.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	fcCfg := forecast.DefaultConfig()
	fcCfg.Timeout = cfg.Forecast.FitTimeout
	fcCfg.MaxIterations = cfg.Forecast.MaxIterations

	forecaster, err := forecast.NewForecaster(fcCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create forecaster: %w", err)
	}
	opts = append([]Option{WithLogger(logger)}, opts...)
	return New(
		dataprocessing.NewIngestor(logger),
		dataprocessing.NewAggregator(logger).WithMaxDays(cfg.Upload.MaxDays),
		forecaster,
		charts.NewRenderer(cfg.Chart, logger),
		opts...,
	), nil
}

// Forecaster returns the forecasting stage.
func (o *Orchestrator) Forecaster() Forecaster { return o.forecaster }

// Renderer returns the chart rendering stage.
func (o *Orchestrator) Renderer() Renderer { return o.renderer }

// Run executes every stage on upload. It returns either a complete Analysis
// or the first stage error.
func (o *Orchestrator) Run(ctx context.Context, upload domain.RawUpload) (*domain.Analysis, error) {
	runID := uuid.NewString()
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, span := o.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.String("upload.filename", upload.Filename),
			attribute.Int("upload.bytes", len(upload.Data)),
		))
	defer span.End()

	start := time.Now()
	o.logRunStart(ctx, runID, upload.Filename, len(upload.Data))
	if o.metrics != nil {
		o.metrics.UploadBytes.Record(ctx, int64(len(upload.Data)))
	}

	analysis, err := o.execute(ctx, runID, upload)
	o.metrics.RecordRun(ctx, time.Since(start), err == nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	o.logRunComplete(ctx, runID, analysis.Rows, len(analysis.Daily), time.Since(start))
	return analysis, nil
}

func (o *Orchestrator) execute(ctx context.Context, runID string, upload domain.RawUpload) (*domain.Analysis, error) {
	var (
		records  domain.DatedSeries
		daily    domain.DailySeries
		history  domain.ImagePayload
		fc       domain.ForecastSeries
		model    *forecast.Model
		overlaid domain.ImagePayload
	)

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{StageIngest, func(ctx context.Context) (err error) {
			records, err = o.ingestor.Ingest(ctx, upload)
			return err
		}},
		{StageAggregate, func(ctx context.Context) (err error) {
			daily, err = o.aggregator.Aggregate(ctx, records)
			return err
		}},
		{StageRenderHistory, func(ctx context.Context) (err error) {
			history, err = o.renderer.RenderHistory(ctx, daily)
			return err
		}},
		{StageForecast, func(ctx context.Context) (err error) {
			fc, model, err = o.forecaster.Forecast(ctx, daily)
			return err
		}},
		{StageRenderForecast, func(ctx context.Context) (err error) {
			overlaid, err = o.renderer.RenderForecast(ctx, daily, fc)
			return err
		}},
	}

	for _, step := range steps {
		if err := o.runStage(ctx, runID, step.name, step.fn); err != nil {
			return nil, err
		}
	}

	analysis := &domain.Analysis{
		RunID:         runID,
		Filename:      upload.Filename,
		Rows:          len(records),
		Daily:         daily,
		Forecast:      fc,
		Summary:       dataprocessing.Summarize(daily),
		HistoryChart:  history,
		ForecastChart: overlaid,
	}
	if model != nil {
		analysis.Model = model.Parameters()
	}
	return analysis, nil
}

// runStage wraps fn in a span, records its duration and tags failures with
// the stage name.
func (o *Orchestrator) runStage(ctx context.Context, runID, stage string, fn func(context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, "pipeline."+stage,
		trace.WithAttributes(attribute.String("pipeline.stage", stage)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	if err == nil {
		o.metrics.RecordStage(ctx, stage, duration, "")
		o.logStageComplete(ctx, runID, stage, duration)
		return nil
	}

	errType := unclassified
	if appErr, ok := apperrors.AsAppError(err); ok {
		appErr.WithContext("stage", stage)
		errType = string(appErr.Type)
	} else {
		err = fmt.Errorf("%s stage: %w", stage, err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("error.type", errType))
	o.metrics.RecordStage(ctx, stage, duration, errType)
	o.logStageError(ctx, runID, stage, err)
	return err
}
