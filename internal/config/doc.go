// Package config loads and validates the service configuration.
//
// # Configuration Sources
//
// Values are resolved in this order, later sources winning:
//
//	1. Defaults from struct tags
//	2. Environment variables (an optional .env file is loaded first)
//	3. The YAML file named by SPEND_CONFIG_FILE
//
// # Environment Variables
//
// All variables use the SPEND_ prefix followed by the section and field:
//
//	SPEND_SERVER_PORT=8080
//	SPEND_LOGGING_LEVEL=debug
//	SPEND_UPLOAD_MAX_BYTES=5242880
//	SPEND_FORECAST_FIT_TIMEOUT=2s
//	SPEND_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// Load validates struct tags with go-playground/validator and a few
// cross-field rules; an invalid configuration aborts startup.
//
// The forecast horizon and the smoothing model are not configurable here.
// Only the fit budget (timeout and iteration cap) is.
package config
