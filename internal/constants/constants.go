package constants

import "time"

const (
	// DisplayTick is the scoreboard re-derive cadence. 250ms keeps a
	// second-granularity display visually smooth.
	DisplayTick = 250 * time.Millisecond

	// ReconcileDelay spaces the post-append re-fetch so a burst of stat
	// taps does not hammer the event log.
	ReconcileDelay = 2 * time.Second
)

const (
	StoreTimeout    = 10 * time.Second
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// MaxRemainingSeconds caps any persisted remaining/duration value.
	// No camp sport runs a period longer than two hours.
	MaxRemainingSeconds = 2 * 60 * 60

	// EventFetchLimit bounds one event-log page; a single game never
	// comes close.
	EventFetchLimit = 10000

	LeadersDefaultLimit = 10
)
