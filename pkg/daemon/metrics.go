package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/batterybar/batterybar/pkg/powersource"
)

const metricsNamespace = "batterybar"

// Metrics are the Prometheus metrics of the polling loop. A nil *Metrics
// records nothing.
type Metrics struct {
	percent              prometheus.Gauge
	onBattery            prometheus.Gauge
	low                  prometheus.Gauge
	cycles               prometheus.Counter
	readErrors           prometheus.Counter
	notifications        prometheus.Counter
	notificationFailures prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		percent: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "battery_percent",
			Help:      "Remaining charge of the selected power source, in percent.",
		}),
		onBattery: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "on_battery",
			Help:      "1 if the host is running on battery, 0 otherwise.",
		}),
		low: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "battery_low",
			Help:      "1 while the charge is at or below the low battery threshold.",
		}),
		cycles: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "poll_cycles_total",
			Help:      "Number of polling cycles run.",
		}),
		readErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "read_errors_total",
			Help:      "Number of polling cycles skipped because the power source could not be read.",
		}),
		notifications: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "low_battery_alerts_total",
			Help:      "Number of low battery alerts raised.",
		}),
		notificationFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "low_battery_alert_failures_total",
			Help:      "Number of low battery alerts that failed.",
		}),
	}
}

func (m *Metrics) cycle() {
	if m == nil {
		return
	}
	m.cycles.Inc()
}

func (m *Metrics) readFailed() {
	if m == nil {
		return
	}
	m.readErrors.Inc()
}

func (m *Metrics) observe(s powersource.Snapshot) {
	if m == nil {
		return
	}
	m.percent.Set(s.Percent())
	if s.State() == powersource.OnBattery {
		m.onBattery.Set(1)
	} else {
		m.onBattery.Set(0)
	}
}

func (m *Metrics) setLow(low bool) {
	if m == nil {
		return
	}
	if low {
		m.low.Set(1)
	} else {
		m.low.Set(0)
	}
}

func (m *Metrics) notified(err error) {
	if m == nil {
		return
	}
	m.notifications.Inc()
	if err != nil {
		m.notificationFailures.Inc()
	}
}
