package config

// Application constants
const (
	// Application Info
	AppName    = "cyclingstats"
	AppVersion = "1.0.0"

	// ServiceName identifies the process in traces and metrics
	ServiceName = "cycling-performance-analysis"

	// DefaultConfigFile is searched in the working directory when no
	// --config flag or CYCLING_CONFIG is given
	DefaultConfigFile = "cyclingstats.yaml"
)
