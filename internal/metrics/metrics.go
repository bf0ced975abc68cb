// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Auth rejection reasons reported to IncAuthRejected.
const (
	ReasonTokenMissing   = "token_missing"
	ReasonTokenMalformed = "token_malformed"
	ReasonTokenExpired   = "token_expired"
	ReasonTokenRevoked   = "token_revoked"
	ReasonUserNotFound   = "user_not_found"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncLoginSucceeded()
	IncLoginFailed()
	IncTokenRefreshed()
	IncRefreshDenied()
	IncLogout()
	IncAuthRejected(reason string)

	// Travel management metrics
	IncTravelCreated()
	IncTravelUpdated()
	IncTravelDeleted()

	// HTTP metrics
	ObserveRequestDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
