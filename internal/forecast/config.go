package forecast

import (
	"fmt"
	"time"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
)

// MinPoints is the shortest series a trend can be fitted to.
const MinPoints = 2

// Config controls the model family and the fitting budget.
type Config struct {
	// Horizon is the number of days projected past the last observation.
	Horizon int
	// Damped enables the damping factor phi on the trend term.
	Damped bool
	// Exponential selects a multiplicative trend. Only additive trends are
	// supported, so true is rejected by Validate.
	Exponential bool
	// PhiMin and PhiMax bound the damping factor.
	PhiMin float64
	PhiMax float64
	// MaxIterations caps objective evaluations in the refinement step.
	MaxIterations int
	// Timeout bounds the whole fit.
	Timeout time.Duration
}

// DefaultConfig returns a 10 day damped additive trend.
func DefaultConfig() Config {
	return Config{
		Horizon:       10,
		Damped:        true,
		Exponential:   false,
		PhiMin:        0.8,
		PhiMax:        0.98,
		MaxIterations: 4000,
		Timeout:       5 * time.Second,
	}
}

// Validate reports configuration that cannot produce a model.
func (c Config) Validate() error {
	switch {
	case c.Exponential:
		return apperrors.NewConfigError("exponential trend is not supported", nil)
	case c.Horizon < 1:
		return apperrors.NewConfigError(fmt.Sprintf("horizon must be positive, got %d", c.Horizon), nil)
	case c.MaxIterations < 1:
		return apperrors.NewConfigError(fmt.Sprintf("max iterations must be positive, got %d", c.MaxIterations), nil)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("fit timeout must be positive", nil)
	case c.Damped && !(0 < c.PhiMin && c.PhiMin < c.PhiMax && c.PhiMax <= 1):
		return apperrors.NewConfigError(
			fmt.Sprintf("damping bounds must satisfy 0 < min < max <= 1, got [%g, %g]", c.PhiMin, c.PhiMax), nil)
	}
	return nil
}
