// Package constants provides shared configuration values used across the logview application.
package constants

import "time"

// Configuration file defaults
const (
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "logview.yaml"

	// DefaultAPIHost is the default host for the HTTP server
	DefaultAPIHost = "127.0.0.1"

	// DefaultAPIPort is the default port for the HTTP server
	DefaultAPIPort = 5580

	// DefaultAPIAddress is the default address for client connections
	DefaultAPIAddress = "http://127.0.0.1:5580"

	// DefaultRoutePrefix is the path segment the UI and API are mounted under
	DefaultRoutePrefix = "logs"

	// DefaultHomeURL is the link target of the UI's home button
	DefaultHomeURL = "/"
)

// Timeout and duration defaults
const (
	// DefaultRequestTimeout is the default timeout for API requests
	DefaultRequestTimeout = 30 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Log query defaults
const (
	// DefaultPage is used when the page parameter is missing, zero or unparseable
	DefaultPage = 1

	// DefaultPageSize is used when the count parameter is missing, zero or unparseable
	DefaultPageSize = 10
)

// Provider defaults
const (
	// DefaultMemoryCapacity is the default ring buffer size for memory providers
	DefaultMemoryCapacity = 1000

	// SelfProviderName is the memory provider that receives logview's own logs
	SelfProviderName = "self"

	// DefaultPostgresTable is the default table read by postgres providers
	DefaultPostgresTable = "logs"

	// DefaultRedisKey is the default list key read by redis providers
	DefaultRedisKey = "logs"

	// ScannerMaxBufferSize is the maximum line length accepted from jsonl files
	ScannerMaxBufferSize = 1024 * 1024 // 1MB
)
