package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics tracks the overdue/reminder sweep.
type SweepMetrics struct {
	sweepDuration   *prometheus.HistogramVec
	overduePromoted prometheus.Counter
	remindersSent   prometheus.Counter
	overdueAlerts   prometheus.Counter
	notifyFailures  prometheus.Counter
}

var (
	sweepMetricsOnce sync.Once
	sweepMetrics     *SweepMetrics
)

func Sweep() *SweepMetrics {
	return SweepWithConfig(Config{})
}

func SweepWithConfig(cfg Config) *SweepMetrics {
	sweepMetricsOnce.Do(func() {
		sweepMetrics = newSweepMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return sweepMetrics
}

func ResetSweepMetricsForTest() {
	sweepMetricsOnce = sync.Once{}
	sweepMetrics = nil
}

func newSweepMetrics(registerer prometheus.Registerer, cfg Config) *SweepMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "ping-pague"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	sweepDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "pingpague_sweep_duration_seconds",
			Help:        "Duration of a full overdue/reminder sweep pass.",
			Buckets:     []float64{0.05, 0.25, 1, 5, 15, 60},
			ConstLabels: constLabels,
		},
		[]string{"result"}, // success | failed
	)

	overduePromoted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "pingpague_sweep_overdue_promoted_total",
			Help:        "Total charges promoted from pending to overdue.",
			ConstLabels: constLabels,
		},
	)

	remindersSent := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "pingpague_sweep_reminders_sent_total",
			Help:        "Total reminder notifications recorded.",
			ConstLabels: constLabels,
		},
	)

	overdueAlerts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "pingpague_sweep_overdue_alerts_total",
			Help:        "Total overdue alert notifications recorded.",
			ConstLabels: constLabels,
		},
	)

	notifyFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "pingpague_sweep_notification_failures_total",
			Help:        "Sweep runs that failed to persist the notification batch.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		sweepDuration,
		overduePromoted,
		remindersSent,
		overdueAlerts,
		notifyFailures,
	)

	return &SweepMetrics{
		sweepDuration:   sweepDuration,
		overduePromoted: overduePromoted,
		remindersSent:   remindersSent,
		overdueAlerts:   overdueAlerts,
		notifyFailures:  notifyFailures,
	}
}

func (m *SweepMetrics) ObserveRun(duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failed"
	}
	m.sweepDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *SweepMetrics) AddOverduePromoted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.overduePromoted.Add(float64(n))
}

func (m *SweepMetrics) AddRemindersSent(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.remindersSent.Add(float64(n))
}

func (m *SweepMetrics) AddOverdueAlerts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.overdueAlerts.Add(float64(n))
}

func (m *SweepMetrics) IncNotifyFailures() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}
