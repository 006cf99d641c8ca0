package config

import "time"

// Application constants
const (
	AppName = "oilrisk"

	// EnvPrefix namespaces every environment variable
	EnvPrefix = "OILRISK"

	// ConfigFileEnv names the variable holding the YAML file path
	ConfigFileEnv     = "OILRISK_CONFIG"
	DefaultConfigFile = "config.yaml"
)

// Output file names written under Paths.OutputDir
const (
	SQLFileName  = "data.sql"
	XLSXFileName = "oil_risk_data.xlsx"
)

// Defaults shared by Default and the validators
const (
	DefaultPort            = 8080
	DefaultKafkaTopic      = "oil-risk-alerts"
	DefaultReportChunk     = 50 * time.Millisecond
	DefaultReportTimeout   = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"json", "text"}
	validLogOutputs    = []string{"console", "file", "both"}
	validTraceExporter = []string{"none", "stdout"}
	validInputExts     = []string{".csv", ".txt", ".xlsx", ".xlsm"}
)
