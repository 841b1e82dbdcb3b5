package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Store     StoreConfig     `yaml:"store" envconfig:"STORE"`
	Cleaner   CleanerConfig   `yaml:"cleaner" envconfig:"CLEANER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PathsConfig contains the input, output and schema locations
type PathsConfig struct {
	RawDir     string `yaml:"raw_dir" envconfig:"RAW_DIR" validate:"required"`
	CleanDir   string `yaml:"clean_dir" envconfig:"CLEAN_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	SchemaFile string `yaml:"schema_file" envconfig:"SCHEMA_FILE"`
}

// StoreConfig selects the destination database.
// For sqlite the DSN is a file path; for postgres a connection URL.
type StoreConfig struct {
	Driver string `yaml:"driver" envconfig:"DRIVER" validate:"required,oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" envconfig:"DSN" validate:"required"`
}

// CleanerConfig tunes workbook reading
type CleanerConfig struct {
	// Sheet to read from every workbook; empty means the first sheet.
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"omitempty,oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig controls tracing and the metrics textfile written after each run
type TelemetryConfig struct {
	ServiceName     string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Tracing         bool   `yaml:"tracing" envconfig:"TRACING"`
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment (a .env file in the working directory is honoured). Later
// sources win: defaults < file < environment.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	// No default tags: envconfig leaves a field alone when its variable is unset.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and fills the derived logging defaults.
// An empty Logging.FilePath is left for the caller to derive from the logs directory.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = AppName
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		DefaultConfigFile,
		"configs/" + DefaultConfigFile,
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			RawDir:   DefaultRawDir,
			CleanDir: DefaultCleanDir,
			LogsDir:  DefaultLogsDir,
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			DSN:    DefaultDBPath,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
		},
		Telemetry: TelemetryConfig{
			ServiceName: AppName,
		},
	}
}
