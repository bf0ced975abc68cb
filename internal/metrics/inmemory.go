package metrics

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginsSucceeded        uint64
	LoginsFailed           uint64
	TokensRefreshed        uint64
	RefreshesDenied        uint64
	Logouts                uint64
	AuthRejected           map[string]uint64
	TravelsCreated         uint64
	TravelsUpdated         uint64
	TravelsDeleted         uint64
	RequestDurationCount   uint64
	RequestDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
// It backs the /metrics endpoint and is used directly by tests.
type InMemoryRecorder struct {
	loginsSucceeded        uint64
	loginsFailed           uint64
	tokensRefreshed        uint64
	refreshesDenied        uint64
	logouts                uint64
	travelsCreated         uint64
	travelsUpdated         uint64
	travelsDeleted         uint64
	requestDurationCount   uint64
	requestDurationTotalNs int64

	mu           sync.Mutex
	authRejected map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{authRejected: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	rejected := maps.Clone(m.authRejected)
	m.mu.Unlock()

	return Snapshot{
		LoginsSucceeded:        atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:           atomic.LoadUint64(&m.loginsFailed),
		TokensRefreshed:        atomic.LoadUint64(&m.tokensRefreshed),
		RefreshesDenied:        atomic.LoadUint64(&m.refreshesDenied),
		Logouts:                atomic.LoadUint64(&m.logouts),
		AuthRejected:           rejected,
		TravelsCreated:         atomic.LoadUint64(&m.travelsCreated),
		TravelsUpdated:         atomic.LoadUint64(&m.travelsUpdated),
		TravelsDeleted:         atomic.LoadUint64(&m.travelsDeleted),
		RequestDurationCount:   atomic.LoadUint64(&m.requestDurationCount),
		RequestDurationTotalNs: atomic.LoadInt64(&m.requestDurationTotalNs),
	}
}

// IncLoginSucceeded increments successful login counter.
func (m *InMemoryRecorder) IncLoginSucceeded() {
	atomic.AddUint64(&m.loginsSucceeded, 1)
}

// IncLoginFailed increments failed login counter.
func (m *InMemoryRecorder) IncLoginFailed() {
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncTokenRefreshed increments refreshed token counter.
func (m *InMemoryRecorder) IncTokenRefreshed() {
	atomic.AddUint64(&m.tokensRefreshed, 1)
}

// IncRefreshDenied increments denied refresh counter.
func (m *InMemoryRecorder) IncRefreshDenied() {
	atomic.AddUint64(&m.refreshesDenied, 1)
}

// IncLogout increments logout counter.
func (m *InMemoryRecorder) IncLogout() {
	atomic.AddUint64(&m.logouts, 1)
}

// IncAuthRejected increments the rejection counter for reason.
func (m *InMemoryRecorder) IncAuthRejected(reason string) {
	m.mu.Lock()
	m.authRejected[reason]++
	m.mu.Unlock()
}

// IncTravelCreated increments travel created counter.
func (m *InMemoryRecorder) IncTravelCreated() {
	atomic.AddUint64(&m.travelsCreated, 1)
}

// IncTravelUpdated increments travel updated counter.
func (m *InMemoryRecorder) IncTravelUpdated() {
	atomic.AddUint64(&m.travelsUpdated, 1)
}

// IncTravelDeleted increments travel deleted counter.
func (m *InMemoryRecorder) IncTravelDeleted() {
	atomic.AddUint64(&m.travelsDeleted, 1)
}

// ObserveRequestDuration records request duration.
func (m *InMemoryRecorder) ObserveRequestDuration(duration time.Duration) {
	atomic.AddUint64(&m.requestDurationCount, 1)
	atomic.AddInt64(&m.requestDurationTotalNs, duration.Nanoseconds())
}
