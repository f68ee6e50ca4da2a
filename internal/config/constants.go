package config

// Application constants
const (
	AppName    = "spendcast"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. SPEND_SERVER_PORT.
	EnvPrefix = "SPEND"
	// ConfigFileEnv names an optional YAML config file.
	ConfigFileEnv = "SPEND_CONFIG_FILE"

	DefaultLogLevel       = "info"
	DefaultFormField      = "file"
	DefaultMaxUploadBytes = 10 << 20
	// DefaultMaxDays is about ten years of daily points.
	DefaultMaxDays = 3660
)
