// Package risk implements the monthly oil-market risk pipeline.
//
// The pipeline is a single batch pass over a closed set of daily observations:
//
//	observations -> Aggregate -> DeriveSignals -> Score -> Attribute -> SynthesizeAlerts
//
// Each stage returns a new immutable record type that embeds the previous stage's
// record, so stage outputs can be checked independently:
//
//	MonthlyAggregate  per-month means with forward-fill
//	SignalRecord      + inventory_chg, sentiment_inv
//	ScoredRecord      + risk_index, risk_level
//	MonthlyRecord     + factor attributions
//
// Normalization and attribution use corpus-wide statistics (percentiles, mean and
// sample standard deviation), so every month must be materialized before any month
// is scored. Alert synthesis is a left fold carrying the previous month.
//
// All thresholds are fixed constants. Output is deterministic: no map iteration order,
// clock or random source influences the result.
//
// Example usage:
//
//	engine := risk.NewEngine(logger)
//	result, err := engine.Run(ctx, observations)
//	if err != nil {
//	    return err
//	}
//	dataset := result.Dataset()
package risk
