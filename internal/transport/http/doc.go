// Package http implements the HTTP handlers of the spending forecast service.
// Handlers stay thin: they read the multipart upload, validate it and hand it
// to the forecast service, then format the result.
//
// # Routes
//
//	GET  /                         upload form
//	POST /, /upload                upload form result (two inline charts or error text)
//	POST /api/v1/forecast          analysis as JSON
//	POST /api/v1/forecast/export   daily and forecast tables as CSV or XLSX
//	GET  /api/health[/ready|/live] health checks
//	GET  /api/version              build information
//
// # Error Handling
//
// JSON endpoints answer with RFC 7807 problem details:
//
//	{
//	    "type": "/errors/data/schema",
//	    "title": "Invalid Columns",
//	    "status": 422,
//	    "detail": "missing required column(s): Amount",
//	    "instance": "/api/v1/forecast"
//	}
//
// The upload page shows the same classified message as plain text with the
// same status code.
package http
