package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Sinks     SinksConfig     `yaml:"sinks" envconfig:"SINKS"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Kafka     KafkaConfig     `yaml:"kafka" envconfig:"KAFKA"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the source data set and the output directory
type PathsConfig struct {
	Input     string `yaml:"input" envconfig:"INPUT"`
	Sheet     string `yaml:"sheet" envconfig:"SHEET"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// SinksConfig toggles the file sinks of the build command
type SinksConfig struct {
	SQL  bool `yaml:"sql" envconfig:"SQL"`
	CSV  bool `yaml:"csv" envconfig:"CSV"`
	XLSX bool `yaml:"xlsx" envconfig:"XLSX"`
}

// DatabaseConfig contains the Postgres connection pool settings
type DatabaseConfig struct {
	Enabled         bool          `yaml:"enabled" envconfig:"ENABLED"`
	DSN             string        `yaml:"dsn" envconfig:"DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" envconfig:"CONN_MAX_IDLE_TIME"`
	QueryTimeout    time.Duration `yaml:"query_timeout" envconfig:"QUERY_TIMEOUT"`
	BatchSize       int           `yaml:"batch_size" envconfig:"BATCH_SIZE"`
}

// KafkaConfig contains the alert publisher settings
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" envconfig:"ENABLED"`
	Brokers []string `yaml:"brokers" envconfig:"BROKERS"`
	Topic   string   `yaml:"topic" envconfig:"TOPIC"`
}

// TelemetryConfig contains tracing and metrics settings
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// ReportConfig contains report streaming settings
type ReportConfig struct {
	ChunkDelay    time.Duration `yaml:"chunk_delay" envconfig:"CHUNK_DELAY"`
	StreamTimeout time.Duration `yaml:"stream_timeout" envconfig:"STREAM_TIMEOUT"`
}

// Load resolves defaults, the optional YAML file and the environment
func Load() (*Config, error) {
	cfg := Default()

	path, explicit := configFilePath()
	if _, err := os.Stat(path); err == nil {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file on cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// configFilePath reports the file path and whether it was set explicitly
func configFilePath() (string, bool) {
	if p := os.Getenv(ConfigFileEnv); p != "" {
		return p, true
	}
	return DefaultConfigFile, false
}

// Validate checks the configuration after command line overrides
func (c *Config) Validate() error {
	return c.validate()
}

// validate validates the configuration
func (c *Config) validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port: %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server read timeout must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server shutdown timeout must be positive"))
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate limit rps and burst must be positive"))
	}

	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Logging.Format))
	}
	if !slices.Contains(validLogOutputs, c.Logging.Output) {
		errs = append(errs, fmt.Errorf("invalid log output %q", c.Logging.Output))
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		errs = append(errs, errors.New("log file path is required for file output"))
	}

	if c.Paths.Input != "" {
		ext := strings.ToLower(filepath.Ext(c.Paths.Input))
		if !slices.Contains(validInputExts, ext) {
			errs = append(errs, fmt.Errorf("unsupported input format %q", ext))
		}
	}
	if c.Paths.OutputDir == "" && c.Sinks.Any() {
		errs = append(errs, errors.New("output dir is required when a file sink is enabled"))
	}

	if c.Database.Enabled && c.Database.DSN == "" {
		errs = append(errs, errors.New("database dsn is required when the database is enabled"))
	}
	if c.Database.BatchSize < 0 {
		errs = append(errs, errors.New("database batch size must not be negative"))
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("at least one kafka broker is required when kafka is enabled"))
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, errors.New("kafka topic is required when kafka is enabled"))
		}
	}

	if !slices.Contains(validTraceExporter, c.Telemetry.TraceExporter) {
		errs = append(errs, fmt.Errorf("invalid trace exporter %q", c.Telemetry.TraceExporter))
	}

	if c.Report.ChunkDelay < 0 {
		errs = append(errs, errors.New("report chunk delay must not be negative"))
	}
	if c.Report.StreamTimeout <= 0 {
		errs = append(errs, errors.New("report stream timeout must be positive"))
	}

	return errors.Join(errs...)
}

// Any reports whether a file sink is enabled
func (s SinksConfig) Any() bool {
	return s.SQL || s.CSV || s.XLSX
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/oilrisk.log",
		},
		Paths: PathsConfig{
			OutputDir: "dist",
		},
		Sinks: SinksConfig{
			SQL: true,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			QueryTimeout:    60 * time.Second,
			BatchSize:       500,
		},
		Kafka: KafkaConfig{
			Topic: DefaultKafkaTopic,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			TraceExporter:  "none",
			MetricsEnabled: true,
		},
		Report: ReportConfig{
			ChunkDelay:    DefaultReportChunk,
			StreamTimeout: DefaultReportTimeout,
		},
	}
}
