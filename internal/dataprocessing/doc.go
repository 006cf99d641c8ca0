// Package dataprocessing reads the daily oil dataset into risk observations.
//
// Two source formats are supported:
//
//  1. CSV files, optionally starting with a UTF-8 byte order mark
//  2. XLSX workbooks, read from the first sheet unless a sheet is named
//
// Columns are resolved by header name when the header row carries the date
// column and every source field name. Otherwise the fixed positional layout of
// the cleaned dataset export is used.
//
// # Cell semantics
//
// A cell is trimmed and stripped of thousands separators before it is parsed.
// Empty, unparseable, NaN and infinite cells are absent, never zero. Rows whose
// date does not parse are skipped and counted in ReadStats.
//
// # Usage
//
//	reader := dataprocessing.NewReader(logger)
//	observations, stats, err := reader.ReadFile(ctx, "Final_Oil_Dataset_Cleaned.csv")
//	if err != nil {
//	    return err
//	}
//	result, err := engine.Run(ctx, observations)
//
// Errors are returned only for unreadable files or a missing header row.
package dataprocessing
