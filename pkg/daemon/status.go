package daemon

import (
	"sync"
	"time"

	"github.com/batterybar/batterybar/pkg/powerinfo"
	"github.com/batterybar/batterybar/pkg/powersource"
	"github.com/batterybar/batterybar/pkg/threshold"
)

// StatusStore holds the result of the latest cycle for the HTTP API. It is
// written by the polling loop and read by handlers. A nil store ignores
// writes.
type StatusStore struct {
	mu sync.RWMutex
	s  powerinfo.Status
}

func NewStatusStore() *StatusStore {
	return &StatusStore{}
}

// Get returns a copy of the current status.
func (st *StatusStore) Get() powerinfo.Status {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return st.s
}

func (st *StatusStore) setSnapshot(snap powersource.Snapshot, label string, now time.Time) {
	if st == nil {
		return
	}

	var remaining *int64
	if minutes, ok := snap.TimeRemaining(); ok {
		remaining = &minutes
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.s.Title = label
	st.s.State = snap.State().String()
	st.s.Percent = snap.Percent()
	st.s.CurrentCapacity = snap.CurrentCapacity()
	st.s.MaxCapacity = snap.MaxCapacity()
	st.s.TimeRemainingMinutes = remaining
	st.s.LastError = ""
	st.s.UpdatedAt = now
	st.s.Cycles++
}

// setError records a failed cycle. The previous snapshot fields are kept,
// the same way the label is kept on the display.
func (st *StatusStore) setError(err error, now time.Time) {
	if st == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.s.LastError = err.Error()
	st.s.UpdatedAt = now
	st.s.Cycles++
}

func (st *StatusStore) setTransition(t threshold.Transition, now time.Time) {
	if st == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.s.LastTransition = t.String()
	st.s.LastTransitionAt = now
}
