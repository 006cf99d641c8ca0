// Package services implements the query layer of the risk API on top of one
// completed pipeline run.
//
// A Dataset indexes the output rows by date and alert id. Each service reads
// from it and returns the API contracts of pkg/contracts/api/v1:
//
//   - RiskService: latest month and the oil price / risk index time series
//   - AlertService: paged alert list and alert detail
//   - FactorService: category radar, month explanation, category weights
//   - BacktestService: simulated model replay over a date range
//   - ReportService: templated alert analysis, streamed in chunks
//   - HealthService: readiness summary
//
// # Error Handling
//
// Services return errors wrapping the sentinels in errors.go. Handlers map
// them to problem responses with errors.Is; Error() carries the client
// facing message.
package services
