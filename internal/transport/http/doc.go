// Package http implements the query API handlers.
//
// Handlers stay thin: they parse path and query parameters, call a service
// and render the result with go-chi/render. Service failures are mapped to
// RFC 7807 problem responses through the shared errors.ErrorHandler.
//
// Routes served under /api:
//
//	GET  /risk/current          latest month with its top factors
//	GET  /risk/radar            category radar, optional ?date=YYYY-MM-DD
//	GET  /factors/timeseries    oil price and risk index, optional ?start=&end=
//	GET  /explain/{date}        every factor of one month
//	PUT  /config/weights        set category weights and rescore the latest month
//	GET  /alerts                paged alert list
//	GET  /alerts/{id}           alert with its rule chain
//	POST /predict/backtest      model backtest over a date range
//	GET  /report/{alertId}      report as server-sent events
//	GET  /report/{alertId}/ws   report over a websocket
package http
