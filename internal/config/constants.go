package config

// Application constants
const (
	AppName = "vaxetl"

	// EnvPrefix namespaces every environment variable, e.g. VAXETL_STORE_DRIVER.
	EnvPrefix = "VAXETL"

	// DefaultConfigFile is looked up in the working directory when --config is not given.
	DefaultConfigFile = "vaxetl.yaml"

	// File paths (relative to the working directory)
	DefaultRawDir   = "data/raw"
	DefaultCleanDir = "data/clean"
	DefaultLogsDir  = "logs"
	DefaultDBPath   = "db/vaccination.db"

	// DefaultLogFileName is placed in the logs directory when logging.file_path is unset.
	DefaultLogFileName = "vaxetl.log"

	// Store drivers
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)
