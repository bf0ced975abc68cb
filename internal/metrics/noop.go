package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncLoginSucceeded is a no-op.
func (n *NoopRecorder) IncLoginSucceeded() {}

// IncLoginFailed is a no-op.
func (n *NoopRecorder) IncLoginFailed() {}

// IncTokenRefreshed is a no-op.
func (n *NoopRecorder) IncTokenRefreshed() {}

// IncRefreshDenied is a no-op.
func (n *NoopRecorder) IncRefreshDenied() {}

// IncLogout is a no-op.
func (n *NoopRecorder) IncLogout() {}

// IncAuthRejected is a no-op.
func (n *NoopRecorder) IncAuthRejected(reason string) {}

// IncTravelCreated is a no-op.
func (n *NoopRecorder) IncTravelCreated() {}

// IncTravelUpdated is a no-op.
func (n *NoopRecorder) IncTravelUpdated() {}

// IncTravelDeleted is a no-op.
func (n *NoopRecorder) IncTravelDeleted() {}

// ObserveRequestDuration is a no-op.
func (n *NoopRecorder) ObserveRequestDuration(duration time.Duration) {}
