package daemon

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/batterybar/batterybar/pkg/display"
	"github.com/batterybar/batterybar/pkg/events"
	"github.com/batterybar/batterybar/pkg/powersource"
	"github.com/batterybar/batterybar/pkg/threshold"
	"github.com/batterybar/batterybar/pkg/title"
)

const (
	// PollInterval is the pause between the end of a cycle and the start of
	// the next one.
	PollInterval = 5 * time.Second
	// readTimeout bounds a single power source query.
	readTimeout = 5 * time.Second
	// continuousLoopThreshold is the window used to detect missed cycles.
	continuousLoopThreshold = 1*time.Minute + 5*time.Second
)

// SnapshotReader reads the current power source status.
type SnapshotReader interface {
	Read(ctx context.Context) (powersource.Snapshot, error)
}

// Notifier raises the low battery alert.
type Notifier interface {
	Notify(ctx context.Context, percent float64) error
}

// statusSetter is implemented by displays that have room for a longer
// status line, like the tray menu.
type statusSetter interface {
	SetStatus(text string)
}

// LoopOptions holds the optional collaborators of a Loop.
type LoopOptions struct {
	// Interval defaults to PollInterval.
	Interval time.Duration
	Status   *StatusStore
	Hub      *events.EventHub
	Metrics  *Metrics
}

// Loop polls the power source, publishes the title and raises the low
// battery alert. All of its state is owned by the goroutine calling Run.
type Loop struct {
	reader   SnapshotReader
	display  display.Display
	notifier Notifier
	monitor  *threshold.Monitor
	interval time.Duration

	status   *StatusStore
	hub      *events.EventHub
	metrics  *Metrics
	recorder *TimeSeriesRecorder

	lastPrintTime time.Time
	lastStatus    loopStatus
}

func NewLoop(reader SnapshotReader, d display.Display, notifier Notifier, opts LoopOptions) *Loop {
	interval := opts.Interval
	if interval <= 0 {
		interval = PollInterval
	}

	return &Loop{
		reader:   reader,
		display:  d,
		notifier: notifier,
		monitor:  threshold.NewMonitor(),
		interval: interval,
		status:   opts.Status,
		hub:      opts.Hub,
		metrics:  opts.Metrics,
		recorder: NewTimeSeriesRecorder(int(continuousLoopThreshold/interval)+1, interval),
	}
}

// Run polls until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	logrus.WithField("interval", l.interval).Debug("polling loop starts")

	for ctx.Err() == nil {
		l.checkMissedCycles()

		start := time.Now()
		_, _ = l.RunOnce(ctx)
		// The interval runs from the end of a cycle, so record the end.
		l.recorder.AddCycle(time.Now(), time.Since(start))

		timer := time.NewTimer(l.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	logrus.Info("polling loop stopped")
}

// RunOnce runs a single cycle. A read error skips the cycle and keeps the
// previous label. Alert failures are logged and do not fail the cycle.
func (l *Loop) RunOnce(ctx context.Context) (threshold.Transition, error) {
	l.metrics.cycle()

	readCtx, cancel := context.WithTimeout(ctx, readTimeout)
	snap, err := l.reader.Read(readCtx)
	cancel()
	if err != nil {
		logrus.WithError(err).Error("failed to read power source, skipping this cycle")
		l.metrics.readFailed()
		l.status.setError(err, time.Now())
		l.setStatusLine("Error: " + err.Error())
		return threshold.None, err
	}

	label := title.Format(snap)
	l.display.SetLabel(label)

	percent := snap.Percent()
	transition := l.monitor.Update(percent)

	l.printStatus(snap, label)
	l.setStatusLine(statusLine(snap))
	l.metrics.observe(snap)
	l.status.setSnapshot(snap, label, time.Now())

	switch transition {
	case threshold.EnteredLow:
		l.onEnteredLow(ctx, percent, label)
	case threshold.ExitedLow:
		l.onExitedLow(percent, label)
	}

	return transition, nil
}

func (l *Loop) onEnteredLow(ctx context.Context, percent float64, label string) {
	now := time.Now()
	logrus.WithFields(logrus.Fields{
		"percent":   percent,
		"threshold": threshold.LowBatteryThreshold,
	}).Warn("battery is low, raising alert")

	l.metrics.setLow(true)
	l.status.setTransition(threshold.EnteredLow, now)
	l.hub.Publish(events.BatteryLow, events.ThresholdEvent{
		Percent:   percent,
		Threshold: threshold.LowBatteryThreshold,
		Title:     label,
		Ts:        now.Unix(),
	})

	err := l.notifier.Notify(ctx, percent)
	l.metrics.notified(err)
	if err != nil {
		logrus.WithError(err).Error("failed to raise low battery alert")
		l.hub.Publish(events.AlertFailed, events.AlertFailedEvent{
			Percent: percent,
			Error:   err.Error(),
			Ts:      time.Now().Unix(),
		})
	}
}

func (l *Loop) onExitedLow(percent float64, label string) {
	now := time.Now()
	logrus.WithFields(logrus.Fields{
		"percent":   percent,
		"threshold": threshold.LowBatteryThreshold,
	}).Info("battery is no longer low")

	l.metrics.setLow(false)
	l.status.setTransition(threshold.ExitedLow, now)
	l.hub.Publish(events.BatteryRecovered, events.ThresholdEvent{
		Percent:   percent,
		Threshold: threshold.LowBatteryThreshold,
		Title:     label,
		Ts:        now.Unix(),
	})
}

func (l *Loop) setStatusLine(text string) {
	if s, ok := l.display.(statusSetter); ok {
		s.SetStatus(text)
	}
}

func statusLine(s powersource.Snapshot) string {
	line := fmt.Sprintf("%s, %s%%", s.State(), title.Percent(s.Percent()))
	minutes, ok := s.TimeRemaining()
	if !ok {
		return line
	}
	switch s.State() {
	case powersource.OnBattery:
		return line + ", " + title.HumanTime(minutes) + " remaining"
	case powersource.OnACPower:
		return line + ", " + title.HumanTime(minutes) + " until full"
	}
	return line
}

func (l *Loop) checkMissedCycles() bool {
	count := l.recorder.GetRecordsIn(continuousLoopThreshold)
	expected := int(continuousLoopThreshold / l.interval)
	minCount := expected - 1

	// Nothing to compare against right after startup.
	if len(l.recorder.GetRecords()) < expected {
		return false
	}

	if count < minCount {
		logrus.WithFields(logrus.Fields{
			"cycleCount":         count,
			"expectedCycleCount": expected,
			"minCycleCount":      minCount,
			"recentRecords":      formatRelativeTimes(l.recorder.GetLastRecords(continuousLoopThreshold)),
		}).Info("possibly missed polling cycles, the system may have been asleep")
		return true
	}
	return false
}

type loopStatus struct {
	state           powersource.State
	currentCapacity int64
	maxCapacity     int64
	label           string
}

// printStatus logs the cycle at debug level when something changed, and at
// trace level otherwise.
func (l *Loop) printStatus(s powersource.Snapshot, label string) {
	currentStatus := loopStatus{
		state:           s.State(),
		currentCapacity: s.CurrentCapacity(),
		maxCapacity:     s.MaxCapacity(),
		label:           label,
	}

	fields := logrus.Fields{
		"state":           s.State().String(),
		"currentCapacity": s.CurrentCapacity(),
		"maxCapacity":     s.MaxCapacity(),
		"percent":         s.Percent(),
		"label":           label,
	}

	defer func() { l.lastPrintTime = time.Now() }()

	if time.Since(l.lastPrintTime) < l.interval+time.Second && reflect.DeepEqual(l.lastStatus, currentStatus) {
		logrus.WithFields(fields).Trace("polling loop status")
		return
	}

	logrus.WithFields(fields).Debug("polling loop status")

	l.lastStatus = currentStatus
}
