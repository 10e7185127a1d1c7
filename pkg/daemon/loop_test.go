package daemon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batterybar/batterybar/pkg/display"
	"github.com/batterybar/batterybar/pkg/events"
	"github.com/batterybar/batterybar/pkg/notify"
	"github.com/batterybar/batterybar/pkg/powersource"
	"github.com/batterybar/batterybar/pkg/threshold"
)

// scriptedReader returns its results in order, repeating the last one.
type scriptedReader struct {
	mu      sync.Mutex
	results []readResult
	calls   int
}

type readResult struct {
	snap powersource.Snapshot
	err  error
}

func (r *scriptedReader) Read(_ context.Context) (powersource.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := min(r.calls, len(r.results)-1)
	r.calls++
	return r.results[i].snap, r.results[i].err
}

type recordingNotifier struct {
	mu       sync.Mutex
	percents []float64
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, percent float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.percents = append(n.percents, percent)
	return n.err
}

type recordingDisplay struct {
	mu     sync.Mutex
	labels []string
	status string
}

func (d *recordingDisplay) SetLabel(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.labels = append(d.labels, text)
}

func (d *recordingDisplay) SetStatus(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = text
}

func (d *recordingDisplay) Labels() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.labels...)
}

func snapshot(t *testing.T, state powersource.State, current, maxCapacity, minutes int64) readResult {
	t.Helper()
	s, err := powersource.NewSnapshot(state, current, maxCapacity, minutes)
	require.NoError(t, err)
	return readResult{snap: s}
}

func TestLoop_RunOnce_LowBatteryScenario(t *testing.T) {
	reader := &scriptedReader{results: []readResult{
		snapshot(t, powersource.OnBattery, 4, 100, 125),
	}}
	d := &recordingDisplay{}
	n := &recordingNotifier{}
	hub := events.NewEventHub()
	sub := hub.Subscribe()
	status := NewStatusStore()
	loop := NewLoop(reader, d, n, LoopOptions{Status: status, Hub: hub})

	tr, err := loop.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, threshold.EnteredLow, tr)

	require.Len(t, d.Labels(), 1)
	assert.Contains(t, d.Labels()[0], "2h5m")
	assert.Contains(t, d.Labels()[0], "(4%)")
	assert.Equal(t, "Battery Power, 4%, 2h5m remaining", d.status)

	assert.Equal(t, []float64{4}, n.percents)
	assert.Equal(t, "Battery at 4%", notify.Message(n.percents[0]))

	ev := <-sub
	assert.Equal(t, events.BatteryLow, ev.Name)

	st := status.Get()
	assert.Equal(t, "EnteredLow", st.LastTransition)
	assert.Equal(t, 4.0, st.Percent)
	require.NotNil(t, st.TimeRemainingMinutes)
	assert.Equal(t, int64(125), *st.TimeRemainingMinutes)

	// Same percent again: no second alert.
	tr, err = loop.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, threshold.None, tr)
	assert.Len(t, n.percents, 1)
}

func TestLoop_RunOnce_ReadErrorKeepsLabel(t *testing.T) {
	reader := &scriptedReader{results: []readResult{
		snapshot(t, powersource.OnACPower, 50, 100, 30),
		{err: powersource.ErrDivisionByZero},
		snapshot(t, powersource.OnACPower, 51, 100, 29),
	}}
	d := &recordingDisplay{}
	status := NewStatusStore()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	loop := NewLoop(reader, d, &recordingNotifier{}, LoopOptions{Status: status, Metrics: metrics})

	_, err := loop.RunOnce(context.Background())
	require.NoError(t, err)

	_, err = loop.RunOnce(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, powersource.ErrDivisionByZero))
	assert.Equal(t, []string{"↑ 30m (50%)"}, d.Labels())
	assert.Equal(t, "↑ 30m (50%)", status.Get().Title)
	assert.NotEmpty(t, status.Get().LastError)
	assert.Contains(t, d.status, "Error")

	_, err = loop.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"↑ 30m (50%)", "↑ 29m (51%)"}, d.Labels())
	assert.Empty(t, status.Get().LastError)
	assert.Equal(t, 3, status.Get().Cycles)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.readErrors))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.cycles))
	assert.Equal(t, 51.0, testutil.ToFloat64(metrics.percent))
}

func TestLoop_RunOnce_NotifierFailureIsNotFatal(t *testing.T) {
	reader := &scriptedReader{results: []readResult{
		snapshot(t, powersource.OnBattery, 3, 100, 0),
		snapshot(t, powersource.OnBattery, 2, 100, 0),
	}}
	n := &recordingNotifier{err: errors.New("osascript: exit status 1")}
	hub := events.NewEventHub()
	sub := hub.Subscribe()
	metrics := NewMetrics(prometheus.NewRegistry())
	loop := NewLoop(reader, display.NewLog(), n, LoopOptions{Hub: hub, Metrics: metrics})

	tr, err := loop.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, threshold.EnteredLow, tr)

	assert.Equal(t, events.BatteryLow, (<-sub).Name)
	failed := <-sub
	assert.Equal(t, events.AlertFailed, failed.Name)
	payload, err := events.DecodeAs[events.AlertFailedEvent](failed)
	require.NoError(t, err)
	assert.Contains(t, payload.Error, "exit status 1")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.notificationFailures))

	// Still debounced after a failed alert.
	tr, err = loop.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, threshold.None, tr)
	assert.Len(t, n.percents, 1)
}

func TestLoop_RunOnce_CrossingDownAndUp(t *testing.T) {
	var results []readResult
	for _, c := range []int64{10, 7, 5, 4, 4, 6, 8, 3} {
		results = append(results, snapshot(t, powersource.OnBattery, c, 100, 60))
	}
	reader := &scriptedReader{results: results}
	n := &recordingNotifier{}
	metrics := NewMetrics(prometheus.NewRegistry())
	loop := NewLoop(reader, display.NewLog(), n, LoopOptions{Metrics: metrics})

	var got []threshold.Transition
	for range results {
		tr, err := loop.RunOnce(context.Background())
		require.NoError(t, err)
		got = append(got, tr)
	}

	assert.Equal(t, []threshold.Transition{
		threshold.None, threshold.None, threshold.EnteredLow, threshold.None,
		threshold.None, threshold.ExitedLow, threshold.None, threshold.EnteredLow,
	}, got)
	assert.Equal(t, []float64{5, 3}, n.percents)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.low))
}

func TestLoop_Run_StopsOnCancel(t *testing.T) {
	reader := &scriptedReader{results: []readResult{
		snapshot(t, powersource.OnBattery, 80, 100, 300),
		{err: powersource.ErrDivisionByZero},
	}}
	d := &recordingDisplay{}
	loop := NewLoop(reader, d, &recordingNotifier{}, LoopOptions{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		reader.mu.Lock()
		defer reader.mu.Unlock()
		return reader.calls >= 5
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}

	// Read errors after the first cycle never replaced the label.
	assert.Equal(t, []string{"↓ 5h0m (80%)"}, d.Labels())
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		res  readResult
		want string
	}{
		{
			name: "charging",
			res:  snapshot(t, powersource.OnACPower, 90, 100, 20),
			want: "AC Power, 90%, 20m until full",
		},
		{
			name: "no estimate",
			res:  snapshot(t, powersource.OnBattery, 90, 100, 0),
			want: "Battery Power, 90%",
		},
		{
			name: "unknown",
			res:  snapshot(t, powersource.Unknown, 90, 100, 0),
			want: "Unknown, 90%",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusLine(tt.res.snap))
		})
	}
}
