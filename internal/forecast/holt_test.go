package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/shared/testutil"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

var firstDay = civil.Date{Year: 2024, Month: time.January, Day: 1}

func series(values ...float64) domain.DailySeries {
	out := make(domain.DailySeries, len(values))
	for i, v := range values {
		out[i] = domain.DailyPoint{Day: firstDay.AddDays(i), Amount: decimal.NewFromFloat(v)}
	}
	return out
}

func spending(n int) domain.DailySeries {
	values := make([]float64, n)
	for i := range values {
		values[i] = 20 + float64(i)*0.75 + float64((i*7)%5)*3.25
	}
	return series(values...)
}

func newForecaster(t *testing.T, mutate func(*Config)) *Forecaster {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	logger, _ := testutil.NewTestLogger(t)
	f, err := NewForecaster(cfg, logger)
	require.NoError(t, err)
	return f
}

func TestForecast_HorizonAndDates(t *testing.T) {
	daily := spending(30)
	forecast, model, err := newForecaster(t, nil).Forecast(context.Background(), daily)
	require.NoError(t, err)
	require.NotNil(t, model)
	require.Len(t, forecast, 10)

	last := daily.LastDay()
	for i, p := range forecast {
		assert.Equal(t, last.AddDays(i+1), p.Day)
		assert.False(t, math.IsNaN(p.Value) || math.IsInf(p.Value, 0))
	}
}

func TestModel_ForecastHorizons(t *testing.T) {
	model, err := newForecaster(t, nil).Fit(context.Background(), spending(14))
	require.NoError(t, err)

	for _, h := range []int{1, 3, 10, 45} {
		fc := model.Forecast(h)
		require.Len(t, fc, h)
		assert.Equal(t, model.LastDay().AddDays(h), fc[h-1].Day)
	}
	assert.Empty(t, model.Forecast(0))
}

func TestFit_InsufficientData(t *testing.T) {
	f := newForecaster(t, nil)
	for _, daily := range []domain.DailySeries{nil, series(42)} {
		_, err := f.Fit(context.Background(), daily)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInsufficientData), "got %v", err)
	}
}

func TestFit_TwoPoints(t *testing.T) {
	forecast, _, err := newForecaster(t, nil).Forecast(context.Background(), series(10, 20))
	require.NoError(t, err)
	assert.Len(t, forecast, 10)
}

func TestFit_Deterministic(t *testing.T) {
	daily := spending(40)
	f := newForecaster(t, nil)

	first, m1, err := f.Forecast(context.Background(), daily)
	require.NoError(t, err)
	second, m2, err := f.Forecast(context.Background(), daily)
	require.NoError(t, err)

	assert.Equal(t, m1.Parameters(), m2.Parameters())
	assert.Equal(t, first.Values(), second.Values())
}

func TestFit_ConstantSeries(t *testing.T) {
	forecast, model, err := newForecaster(t, nil).Forecast(context.Background(), series(12.5, 12.5, 12.5, 12.5, 12.5, 12.5))
	require.NoError(t, err)
	for _, v := range forecast.Values() {
		assert.InDelta(t, 12.5, v, 1e-6)
	}
	assert.InDelta(t, 0, model.Parameters().SSE, 1e-9)
}

func TestFit_LinearTrend(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 10 + 2*float64(i)
	}
	forecast, model, err := newForecaster(t, nil).Forecast(context.Background(), series(values...))
	require.NoError(t, err)

	p := model.Parameters()
	assert.Greater(t, p.Trend, 0.0)
	assert.InDelta(t, 50, forecast[0].Value, 3)
	for i := 1; i < len(forecast); i++ {
		assert.Greater(t, forecast[i].Value, forecast[i-1].Value)
	}
}

func TestFit_ParameterBounds(t *testing.T) {
	cfg := DefaultConfig()
	model, err := newForecaster(t, nil).Fit(context.Background(), spending(60))
	require.NoError(t, err)

	p := model.Parameters()
	assert.GreaterOrEqual(t, p.Alpha, 0.0)
	assert.LessOrEqual(t, p.Alpha, 1.0)
	assert.GreaterOrEqual(t, p.Beta, 0.0)
	assert.LessOrEqual(t, p.Beta, 1.0)
	assert.GreaterOrEqual(t, p.Phi, cfg.PhiMin)
	assert.LessOrEqual(t, p.Phi, cfg.PhiMax)
	assert.Positive(t, p.Evaluations)
}

func TestFit_Undamped(t *testing.T) {
	model, err := newForecaster(t, func(c *Config) { c.Damped = false }).Fit(context.Background(), spending(20))
	require.NoError(t, err)
	assert.Equal(t, 1.0, model.Parameters().Phi)
}

func TestFit_Timeout(t *testing.T) {
	f := newForecaster(t, func(c *Config) { c.Timeout = time.Nanosecond })
	_, err := f.Fit(context.Background(), spending(30))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNonConvergence), "got %v", err)
}

func TestFit_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newForecaster(t, nil).Fit(ctx, spending(30))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNonConvergence), "got %v", err)
}

func TestFit_EvaluationLimitStillProducesModel(t *testing.T) {
	f := newForecaster(t, func(c *Config) { c.MaxIterations = 12 })
	model, err := f.Fit(context.Background(), spending(25))
	require.NoError(t, err)
	assert.Len(t, model.Forecast(10), 10)
}

func TestFit_RejectsGaps(t *testing.T) {
	daily := series(1, 2, 3)
	daily[2].Day = daily[2].Day.AddDays(3)
	_, err := newForecaster(t, nil).Fit(context.Background(), daily)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNonConvergence), "got %v", err)
}

func TestModel_DampedProjection(t *testing.T) {
	m := &Model{
		params:  domain.ModelParameters{Phi: 0.5, Level: 10, Trend: 4},
		lastDay: firstDay,
	}
	fc := m.Forecast(3)
	assert.InDelta(t, 12, fc[0].Value, 1e-12)
	assert.InDelta(t, 13, fc[1].Value, 1e-12)
	assert.InDelta(t, 13.5, fc[2].Value, 1e-12)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"exponential", func(c *Config) { c.Exponential = true }},
		{"zero horizon", func(c *Config) { c.Horizon = 0 }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
		{"no timeout", func(c *Config) { c.Timeout = 0 }},
		{"inverted phi", func(c *Config) { c.PhiMin, c.PhiMax = 0.95, 0.9 }},
		{"phi above one", func(c *Config) { c.PhiMax = 1.2 }},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewForecaster(cfg, nil)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}
}
