// Package forecast fits a damped additive trend exponential smoothing model
// (Holt's linear method with damping) to a daily spending series and projects
// it forward.
//
// Parameters are chosen by minimising the in-sample sum of squared one-step
// errors. A small deterministic grid seeds a Nelder-Mead search from
// gonum/optimize, so identical input always produces an identical model.
package forecast
