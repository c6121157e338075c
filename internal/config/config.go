package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultTokenTTL is the lifetime of issued authentication tokens.
	DefaultTokenTTL = 24 * time.Hour

	// DBMaxConns and DBMinConns bound the connection pool.
	DBMaxConns = 10
	DBMinConns = 2
)
