package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Index of each entry in the unconstrained search vector.
const (
	idxAlpha = iota
	idxBeta
	idxPhi
	idxLevel
	idxTrend
	searchDims
)

var (
	gridAlpha = []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	gridBeta  = []float64{0.05, 0.2, 0.5}
	gridPhi   = []float64{0.82, 0.9, 0.96}
)

// Forecaster fits damped trend models to daily series.
type Forecaster struct {
	cfg    Config
	logger *slog.Logger
}

// NewForecaster validates cfg and returns a forecaster.
func NewForecaster(cfg Config, logger *slog.Logger) (*Forecaster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Forecaster{cfg: cfg, logger: infrastructure.WithComponent(logger, "forecaster")}, nil
}

// Config returns the configuration the forecaster was built with.
func (f *Forecaster) Config() Config {
	return f.cfg
}

// Forecast fits a model to daily and projects the configured horizon.
func (f *Forecaster) Forecast(ctx context.Context, daily domain.DailySeries) (domain.ForecastSeries, *Model, error) {
	model, err := f.Fit(ctx, daily)
	if err != nil {
		return nil, nil, err
	}
	return model.Forecast(f.cfg.Horizon), model, nil
}

// Fit estimates smoothing parameters and initial states for daily.
func (f *Forecaster) Fit(ctx context.Context, daily domain.DailySeries) (*Model, error) {
	if len(daily) < MinPoints {
		return nil, apperrors.NewInsufficientDataError(len(daily), MinPoints)
	}
	if err := daily.CheckContiguous(); err != nil {
		return nil, apperrors.NewNonConvergenceError("daily series must be gap free", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()
	start := time.Now()

	values := daily.Values()
	mean, std := stat.MeanStdDev(values, nil)
	if !(std > 1e-12) {
		std = 1
	}
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = (v - mean) / std
	}

	obj := objective{y: scaled, damped: f.cfg.Damped, phiMin: f.cfg.PhiMin, phiMax: f.cfg.PhiMax}

	seed, seedSSE := obj.gridSeed()
	if err := expired(ctx); err != nil {
		return nil, apperrors.NewNonConvergenceError("model fit timed out", err)
	}
	f.logger.DebugContext(ctx, "grid seed selected", slog.Float64("sse", seedSSE))

	settings := &optimize.Settings{
		FuncEvaluations: f.cfg.MaxIterations,
		Runtime:         remaining(ctx),
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-8,
			Iterations: 50,
		},
	}
	result, err := optimize.Minimize(optimize.Problem{Func: obj.sse}, seed, settings, &optimize.NelderMead{})

	if ctxErr := expired(ctx); ctxErr != nil {
		return nil, apperrors.NewNonConvergenceError("model fit timed out", ctxErr)
	}
	if result == nil {
		return nil, apperrors.NewNonConvergenceError("optimizer returned no result", err)
	}
	switch result.Status {
	case optimize.RuntimeLimit:
		return nil, apperrors.NewNonConvergenceError("model fit timed out", err)
	case optimize.FunctionEvaluationLimit, optimize.IterationLimit:
		f.logger.WarnContext(ctx, "optimizer stopped at evaluation limit",
			slog.Int("evaluations", result.Stats.FuncEvaluations),
			slog.Float64("sse", result.F))
	default:
		if err != nil {
			return nil, apperrors.NewNonConvergenceError("optimizer failed", err)
		}
	}

	best, bestSSE := result.X, result.F
	if !(bestSSE <= seedSSE) {
		best, bestSSE = seed, seedSSE
	}
	if math.IsNaN(bestSSE) || math.IsInf(bestSSE, 0) {
		return nil, apperrors.NewNonConvergenceError("in-sample error is not finite", nil)
	}

	params := obj.decode(best)
	level, trend := obj.filter(params)
	p := domain.ModelParameters{
		Alpha:        params.alpha,
		Beta:         params.beta,
		Phi:          params.phi,
		InitialLevel: params.level*std + mean,
		InitialTrend: params.trend * std,
		Level:        level*std + mean,
		Trend:        trend * std,
		SSE:          bestSSE * std * std,
		Evaluations:  result.Stats.FuncEvaluations,
	}
	if err := checkParameters(p, f.cfg); err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "model fitted",
		slog.Int("points", len(daily)),
		slog.Float64("alpha", p.Alpha),
		slog.Float64("beta", p.Beta),
		slog.Float64("phi", p.Phi),
		slog.Float64("sse", p.SSE),
		slog.Int("evaluations", p.Evaluations),
		slog.String("status", result.Status.String()),
		slog.Duration("duration", time.Since(start)))

	return &Model{params: p, lastDay: daily.LastDay()}, nil
}

// expired reports a cancelled context or a deadline that has passed even if
// the timer has not fired yet.
func expired(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return nil
}

func remaining(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	if d := time.Until(deadline); d > 0 {
		return d
	}
	return time.Nanosecond
}

func checkParameters(p domain.ModelParameters, cfg Config) error {
	for name, v := range map[string]float64{
		"alpha": p.Alpha, "beta": p.Beta, "phi": p.Phi,
		"level": p.Level, "trend": p.Trend, "sse": p.SSE,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewNonConvergenceError(fmt.Sprintf("fitted %s is not finite", name), nil)
		}
	}
	if p.Alpha < 0 || p.Alpha > 1 || p.Beta < 0 || p.Beta > 1 {
		return apperrors.NewNonConvergenceError("smoothing parameters left the unit interval", nil)
	}
	if cfg.Damped && (p.Phi < cfg.PhiMin || p.Phi > cfg.PhiMax) {
		return apperrors.NewNonConvergenceError(
			fmt.Sprintf("damping factor %g outside [%g, %g]", p.Phi, cfg.PhiMin, cfg.PhiMax), nil)
	}
	return nil
}

// smoothing holds one candidate in model space, on the normalised scale.
type smoothing struct {
	alpha, beta, phi float64
	level, trend     float64
}

// objective maps unbounded search vectors onto bounded parameters and
// scores them by one-step squared error on the normalised series.
type objective struct {
	y              []float64
	damped         bool
	phiMin, phiMax float64
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func logit(p float64) float64 { return math.Log(p / (1 - p)) }

func (o objective) decode(u []float64) smoothing {
	s := smoothing{
		alpha: sigmoid(u[idxAlpha]),
		beta:  sigmoid(u[idxBeta]),
		phi:   1,
		level: u[idxLevel],
		trend: u[idxTrend],
	}
	if o.damped {
		s.phi = o.phiMin + (o.phiMax-o.phiMin)*sigmoid(u[idxPhi])
	}
	return s
}

func (o objective) encode(s smoothing) []float64 {
	u := make([]float64, searchDims)
	u[idxAlpha] = logit(s.alpha)
	u[idxBeta] = logit(s.beta)
	if o.damped {
		u[idxPhi] = logit((s.phi - o.phiMin) / (o.phiMax - o.phiMin))
	}
	u[idxLevel] = s.level
	u[idxTrend] = s.trend
	return u
}

// run applies the error correction recursions and returns the final state
// together with the sum of squared one-step errors.
func (o objective) run(s smoothing) (level, trend, sse float64) {
	level, trend = s.level, s.trend
	for _, y := range o.y {
		damped := s.phi * trend
		e := y - (level + damped)
		sse += e * e
		level = level + damped + s.alpha*e
		trend = damped + s.alpha*s.beta*e
	}
	return level, trend, sse
}

func (o objective) sse(u []float64) float64 {
	_, _, sse := o.run(o.decode(u))
	if math.IsNaN(sse) {
		return math.Inf(1)
	}
	return sse
}

func (o objective) filter(s smoothing) (level, trend float64) {
	level, trend, _ = o.run(s)
	return level, trend
}

// gridSeed evaluates a fixed grid of smoothing parameters with the initial
// states taken from the first two observations and returns the best point.
func (o objective) gridSeed() ([]float64, float64) {
	phis := gridPhi
	if !o.damped {
		phis = []float64{1}
	}
	base := smoothing{level: o.y[0], trend: o.y[1] - o.y[0]}

	var best []float64
	bestSSE := math.Inf(1)
	for _, a := range gridAlpha {
		for _, b := range gridBeta {
			for _, phi := range phis {
				cand := base
				cand.alpha, cand.beta = a, b
				cand.phi = math.Min(math.Max(phi, o.phiMin+1e-6), o.phiMax-1e-6)
				if !o.damped {
					cand.phi = 1
				}
				u := o.encode(cand)
				if v := o.sse(u); v < bestSSE || best == nil {
					best, bestSSE = u, v
				}
			}
		}
	}
	return best, bestSSE
}
