// Package app wires configuration, logging, telemetry, the risk pipeline,
// the output sinks and the HTTP API into one Application.
//
// The build command calls BuildDataset and Export; the serve command calls
// LoadDataset and Serve. Close releases the database pool, flushes telemetry
// and closes the log file.
package app
