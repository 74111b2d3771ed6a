package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}

// IncLogout is a no-op.
func (n *NoopRecorder) IncLogout() {}

// ObservePasswordCheck is a no-op.
func (n *NoopRecorder) ObservePasswordCheck(duration time.Duration) {}

// IncRecordCreated is a no-op.
func (n *NoopRecorder) IncRecordCreated() {}

// IncRecordUpdated is a no-op.
func (n *NoopRecorder) IncRecordUpdated() {}

// IncRecordDeleted is a no-op.
func (n *NoopRecorder) IncRecordDeleted() {}
