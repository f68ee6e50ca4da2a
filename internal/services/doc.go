// Package services sits between the HTTP handlers and the analysis pipeline.
//
// ForecastService checks uploads against the configured limits, bounds the
// number of pipeline runs in flight and exports finished analyses.
// HealthService answers liveness, readiness and version probes from a set of
// named readiness checks.
//
// Services take their collaborators and a *slog.Logger through constructors
// and propagate context.Context to every blocking call.
package services
