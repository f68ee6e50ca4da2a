// Package app wires the spending forecast service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Validate configuration
//	2. Initialize OpenTelemetry providers and pipeline metrics
//	3. Build the pipeline stages and the orchestrator
//	4. Create the forecast and health services
//	5. Set up HTTP handlers and middleware
//	6. Configure the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns after SIGINT, SIGTERM or cancellation of its context. In-flight
// requests are given Server.ShutdownTimeout to finish and telemetry is
// flushed before it returns.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The app does not
// call os.Exit, leaving the exit code to main.
package app
