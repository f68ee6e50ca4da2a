package forecast

import (
	"cloud.google.com/go/civil"

	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Model is a fitted damped trend ready for projection.
type Model struct {
	params  domain.ModelParameters
	lastDay civil.Date
}

// Parameters returns the fitted parameters in the original units.
func (m *Model) Parameters() domain.ModelParameters {
	return m.params
}

// LastDay returns the final observed day.
func (m *Model) LastDay() civil.Date {
	return m.lastDay
}

// Forecast projects horizon consecutive days after the last observation:
// yhat(h) = level + (phi + phi^2 + ... + phi^h) * trend.
func (m *Model) Forecast(horizon int) domain.ForecastSeries {
	if horizon < 1 {
		return domain.ForecastSeries{}
	}
	out := make(domain.ForecastSeries, horizon)
	damping, pow := 0.0, 1.0
	for h := 1; h <= horizon; h++ {
		pow *= m.params.Phi
		damping += pow
		out[h-1] = domain.ForecastPoint{
			Day:   m.lastDay.AddDays(h),
			Value: m.params.Level + damping*m.params.Trend,
		}
	}
	return out
}
