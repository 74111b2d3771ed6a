// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Login outcomes passed to Recorder.IncLogin.
const (
	LoginSuccess     = "success"
	LoginFailure     = "failure"
	LoginRateLimited = "rate_limited"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(status string) // status: "success", "failure" or "rate_limited"
	IncLogout()
	ObservePasswordCheck(duration time.Duration)

	// Record metrics
	IncRecordCreated()
	IncRecordUpdated()
	IncRecordDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
