package daemon

import (
	"sync"
	"time"
)

// TimeSeriesRecorder records the end times of the last N polling cycles
// and how long each cycle took. Gaps between records, minus the time spent
// inside cycles, reveal cycles missed while the host was asleep.
type TimeSeriesRecorder struct {
	MaxRecordCount int
	Records        []time.Time
	// busy[i] is the duration of the cycle that ended at Records[i]. Missing
	// entries count as zero.
	busy []time.Duration
	// interval is the expected idle time between two cycles.
	interval time.Duration
	mu       *sync.Mutex
}

// NewTimeSeriesRecorder returns a new TimeSeriesRecorder.
func NewTimeSeriesRecorder(maxRecordCount int, interval time.Duration) *TimeSeriesRecorder {
	return &TimeSeriesRecorder{
		MaxRecordCount: maxRecordCount,
		Records:        make([]time.Time, 0),
		interval:       interval,
		mu:             &sync.Mutex{},
	}
}

// AddRecordNow adds a new record with the current time.
func (r *TimeSeriesRecorder) AddRecordNow() {
	r.AddRecord(time.Now())
}

// AddRecord adds a new record of an instantaneous cycle.
func (r *TimeSeriesRecorder) AddRecord(t time.Time) {
	r.AddCycle(t, 0)
}

// AddCycle records a cycle that ended at end and took took.
func (r *TimeSeriesRecorder) AddCycle(end time.Time, took time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strip monotonic clock reading.
	// This will prevent time.Since from returning values that are not accurate (especially when the system is in sleep mode).
	end = end.Round(0)

	// Records created without busy times are padded to line up.
	for len(r.busy) < len(r.Records) {
		r.busy = append(r.busy, 0)
	}

	if len(r.Records) >= r.MaxRecordCount {
		r.Records = r.Records[1:]
		r.busy = r.busy[1:]
	}
	r.Records = append(r.Records, end)
	r.busy = append(r.busy, max(took, 0))
}

func (r *TimeSeriesRecorder) busyAt(i int) time.Duration {
	if i < len(r.busy) {
		return r.busy[i]
	}
	return 0
}

// GetRecords returns a copy of the records.
func (r *TimeSeriesRecorder) GetRecords() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]time.Time(nil), r.Records...)
}

// GetRecordsIn returns the number of continuous records in the last duration.
func (r *TimeSeriesRecorder) GetRecordsIn(last time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The last record must be within the last duration.
	if len(r.Records) > 0 && time.Since(r.Records[len(r.Records)-1]) >= r.interval+time.Second {
		return 0
	}

	// Find continuous records from the end of the list.
	// Continuous records are defined as the idle time between two adjacent
	// records (their distance minus the duration of the later cycle) is
	// less than interval+1 second. The window is measured in idle time too,
	// so slow cycles do not push records out of it.
	count := 0
	var busyAfter time.Duration
	for i := len(r.Records) - 1; i >= 0; i-- {
		record := r.Records[i]
		if time.Since(record)-busyAfter > last {
			break
		}

		if i+1 < len(r.Records) {
			idle := r.Records[i+1].Sub(record) - r.busyAt(i+1)
			if idle >= r.interval+time.Second {
				break
			}
		}
		count++
		busyAfter += r.busyAt(i)
	}

	return count
}

// GetLastRecords returns the records within the last duration, newest first.
func (r *TimeSeriesRecorder) GetLastRecords(last time.Duration) []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []time.Time
	for i := len(r.Records) - 1; i >= 0; i-- {
		record := r.Records[i]
		if time.Since(record) > last {
			break
		}
		records = append(records, record)
	}

	return records
}

func formatRelativeTimes(times []time.Time) []string {
	var timesString []string
	for _, t := range times {
		timesString = append(timesString, time.Since(t).Round(time.Second).String())
	}
	return timesString
}
