// Package pipeline runs one spending analysis from raw upload bytes to two
// chart images.
//
// The Orchestrator executes named stages in a fixed order:
//
//	ingest -> aggregate -> render_history -> forecast -> render_forecast
//
// Each stage gets a span, a duration measurement and structured logs. The
// first failing stage ends the run. Its error is returned with the stage
// recorded in the AppError context, and no partial Analysis is produced.
package pipeline
