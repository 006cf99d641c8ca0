// Package postgres loads risk datasets into PostgreSQL and reads them back.
//
// The loader replaces the alert, risk_factor and risk_index tables inside a
// single transaction: schema creation, truncation and every batched insert
// either commit together or not at all. Alert ids are written explicitly so
// they match the 1-based positions of the date-ordered alert list.
package postgres
