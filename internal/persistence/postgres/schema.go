package postgres

// schemaStatements create the three tables when missing
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS risk_index (
		id BIGSERIAL PRIMARY KEY,
		date DATE NOT NULL UNIQUE,
		risk_index NUMERIC(6,2) NOT NULL,
		risk_level VARCHAR(10) NOT NULL,
		oil_price NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS risk_factor (
		id BIGSERIAL PRIMARY KEY,
		date DATE NOT NULL,
		factor_name VARCHAR(64) NOT NULL,
		factor_name_zh VARCHAR(64) NOT NULL,
		category VARCHAR(32) NOT NULL,
		"value" NUMERIC(20,4) NOT NULL,
		shap_value NUMERIC(10,6) NOT NULL,
		UNIQUE (date, factor_name)
	)`,
	`CREATE TABLE IF NOT EXISTS alert (
		id BIGINT PRIMARY KEY,
		date DATE NOT NULL UNIQUE,
		level VARCHAR(10) NOT NULL,
		risk_index NUMERIC(6,2) NOT NULL,
		trigger_type VARCHAR(16) NOT NULL,
		trigger_factor VARCHAR(64) NOT NULL,
		trigger_factor_zh VARCHAR(64) NOT NULL,
		summary TEXT NOT NULL,
		summary_en TEXT NOT NULL,
		detail JSONB NOT NULL
	)`,
}

const truncateStatement = `TRUNCATE TABLE alert, risk_factor, risk_index RESTART IDENTITY`
