package config

import "time"

// Default values for configuration.
const (
	// Server defaults
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxUploadSizeMB = 10
	DefaultCleanupInterval = 1 * time.Hour
	DefaultTaskTTL         = 24 * time.Hour

	// Processing defaults
	DefaultTaskTimeout = 60 * time.Second
	DefaultCacheTTL    = 60 * time.Minute

	// Analysis defaults
	DefaultGapThreshold = 60 * time.Minute
	DefaultPlatform     = "auto"
	DefaultTopWords     = 20
	DefaultTopEmojis    = 10

	// Logging defaults
	DefaultLogLevel = "info"
)
