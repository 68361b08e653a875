package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Engine metrics
	DispatchCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chainflow_dispatch_cycles_total",
			Help: "Total number of system event dispatch cycles completed",
		},
	)

	ActiveChainsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainflow_active_chains_total",
			Help: "Number of chains currently active",
		},
	)

	ChainsDefinedTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainflow_chains_defined_total",
			Help: "Total number of chains defined on the engine",
		},
	)

	// Queue metrics
	SystemQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainflow_system_queue_depth",
			Help: "Current depth of the system broadcast event queue",
		},
	)

	ChainQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chainflow_chain_queue_depth",
			Help: "Current depth of a chain's callback event queue",
		},
		[]string{"chain"},
	)

	QueueEventsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainflow_queue_events_dropped_total",
			Help: "Total number of events rejected because a queue was full",
		},
		[]string{"queue"},
	)

	// Element/return-code metrics
	ElementReturnCodesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainflow_element_return_codes_total",
			Help: "Total number of element process callback returns by chain, element and return code",
		},
		[]string{"chain", "element", "return_code"},
	)

	ElementProcessDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chainflow_element_process_duration_seconds",
			Help:    "Time taken by an element's process callback in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain", "element"},
	)

	// Watchdog metrics
	WatchdogPatsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainflow_watchdog_pats_total",
			Help: "Total number of watchdog pat (kick) events received",
		},
		[]string{"chain", "element"},
	)

	WatchdogTimeoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainflow_watchdog_timeouts_total",
			Help: "Total number of watchdog timeout expirations",
		},
		[]string{"chain", "element"},
	)

	// Exception handler metrics
	ExceptionTripsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainflow_exception_trips_total",
			Help: "Total number of times an exception handler's threshold was reached",
		},
		[]string{"chain", "element"},
	)

	// Dispatch cycle duration
	DispatchCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chainflow_dispatch_cycle_duration_seconds",
			Help:    "Time taken for one full system event dispatch cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(DispatchCyclesTotal)
	prometheus.MustRegister(ActiveChainsTotal)
	prometheus.MustRegister(ChainsDefinedTotal)
	prometheus.MustRegister(SystemQueueDepth)
	prometheus.MustRegister(ChainQueueDepth)
	prometheus.MustRegister(QueueEventsDroppedTotal)
	prometheus.MustRegister(ElementReturnCodesTotal)
	prometheus.MustRegister(ElementProcessDuration)
	prometheus.MustRegister(WatchdogPatsTotal)
	prometheus.MustRegister(WatchdogTimeoutsTotal)
	prometheus.MustRegister(ExceptionTripsTotal)
	prometheus.MustRegister(DispatchCycleDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
