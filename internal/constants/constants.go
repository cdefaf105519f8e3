package constants

import "time"

const (
	MatchListingTTL     = 60 * time.Second
	MatchListingMissTTL = 15 * time.Second
	OverallCacheTTL     = 60 * time.Second
)

const (
	DefaultMatchLimit = 10
	MaxMatchLimit     = 25
	DefaultSyncSize   = 10
	MaxSyncSize       = 25
	DefaultMatchMode  = "competitive"
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	NightlySyncTimeout = 60 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
