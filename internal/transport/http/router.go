package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Handlers groups the API handlers mounted under /api
type Handlers struct {
	Risk     *RiskHandler
	Factor   *FactorHandler
	Alert    *AlertHandler
	Backtest *BacktestHandler
	Report   *ReportHandler
}

// Routes returns the /api router
func (hs Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	// Report streams set their own content type
	r.Mount("/report", hs.Report.Routes())

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/risk/current", hs.Risk.Current)
		r.Get("/risk/radar", hs.Factor.Radar)
		r.Get("/factors/timeseries", hs.Risk.Timeseries)
		r.Get("/explain/{date}", hs.Factor.Explain)
		r.Put("/config/weights", hs.Factor.UpdateWeights)
		r.Post("/predict/backtest", hs.Backtest.Backtest)
		r.Mount("/alerts", hs.Alert.Routes())
	})

	return r
}
