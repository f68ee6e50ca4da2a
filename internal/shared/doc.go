// Package shared holds helpers used across packages of the spending forecast
// service. It contains no business logic.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- CSV fixtures for the ingest and pipeline tests
//	- A buffered slog handler for asserting on log output
package shared
