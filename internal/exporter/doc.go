// Package exporter writes a risk dataset to its file sinks and runs every
// configured sink concurrently.
//
// Three file sinks are provided:
//
// SQLWriter: a seed script that truncates and refills the alert, risk_factor
// and risk_index tables.
//
// CSVWriter: risk_index.csv, risk_factor.csv and alert.csv, each with a UTF-8
// BOM so spreadsheet tools detect the encoding.
//
// XLSXWriter: one workbook with a sheet per table.
//
// Every file is written to a temporary path and renamed into place, so a
// failed write never leaves a partial file behind.
//
// Example usage:
//
//	runner := exporter.NewRunner(logger)
//	err := runner.Run(ctx, dataset,
//	    exporter.NewSQLWriter(filepath.Join(out, "data.sql")),
//	    exporter.NewCSVWriter(out),
//	)
package exporter
