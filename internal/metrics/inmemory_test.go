package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncLoginSucceeded()
	m.IncLoginFailed()
	m.IncLoginFailed()
	m.IncTokenRefreshed()
	m.IncRefreshDenied()
	m.IncLogout()
	m.IncTravelCreated()
	m.IncTravelUpdated()
	m.IncTravelDeleted()
	m.ObserveRequestDuration(2 * time.Millisecond)

	s := m.Snapshot()
	if s.LoginsSucceeded != 1 || s.LoginsFailed != 2 {
		t.Errorf("logins = %d/%d, want 1/2", s.LoginsSucceeded, s.LoginsFailed)
	}
	if s.TokensRefreshed != 1 || s.RefreshesDenied != 1 || s.Logouts != 1 {
		t.Errorf("session counters = %+v", s)
	}
	if s.TravelsCreated != 1 || s.TravelsUpdated != 1 || s.TravelsDeleted != 1 {
		t.Errorf("travel counters = %+v", s)
	}
	if s.RequestDurationCount != 1 || s.RequestDurationTotalNs != int64(2*time.Millisecond) {
		t.Errorf("duration = %d/%d", s.RequestDurationCount, s.RequestDurationTotalNs)
	}
}

func TestInMemoryRecorder_AuthRejectedConcurrent(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncAuthRejected(ReasonTokenExpired)
		}()
	}
	wg.Wait()
	m.IncAuthRejected(ReasonTokenMissing)

	s := m.Snapshot()
	if s.AuthRejected[ReasonTokenExpired] != 100 {
		t.Errorf("expired = %d, want 100", s.AuthRejected[ReasonTokenExpired])
	}
	if s.AuthRejected[ReasonTokenMissing] != 1 {
		t.Errorf("missing = %d, want 1", s.AuthRejected[ReasonTokenMissing])
	}

	// Snapshot is a copy.
	s.AuthRejected[ReasonTokenMissing] = 50
	if m.Snapshot().AuthRejected[ReasonTokenMissing] != 1 {
		t.Error("snapshot map aliases recorder state")
	}
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NewNoop()
	r.IncLoginSucceeded()
	r.IncAuthRejected(ReasonTokenRevoked)
	r.ObserveRequestDuration(time.Second)
}
