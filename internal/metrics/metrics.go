// Package metrics exposes loader activity as Prometheus collectors.
//
// A nil *Collector is valid and records nothing, so the loader can call it
// unconditionally.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the loader's counters.
type Collector struct {
	queued     *prometheus.CounterVec
	queueDepth prometheus.Gauge
	injections prometheus.Counter
	replayed   *prometheus.CounterVec
	forwarded  *prometheus.CounterVec
	faults     *prometheus.CounterVec
}

// NewCollector creates the loader collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid global registration.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		queued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdkloader_queued_entries_total",
				Help: "Entries appended to the pre-load queue, by kind",
			},
			[]string{"kind"}, // "error", "rejection", "call"
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sdkloader_queue_depth",
				Help: "Entries currently held in the pre-load queue",
			},
		),
		injections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sdkloader_injections_total",
				Help: "SDK bundle script elements inserted",
			},
		),
		replayed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdkloader_replayed_calls_total",
				Help: "Queued API calls replayed against the SDK, by method",
			},
			[]string{"method"},
		),
		forwarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdkloader_forwarded_signals_total",
				Help: "Queued errors and rejections forwarded to the SDK hooks, by kind",
			},
			[]string{"kind"},
		),
		faults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdkloader_internal_faults_total",
				Help: "Internal faults caught at a loader boundary",
			},
			[]string{"boundary"},
		),
	}

	for _, col := range []prometheus.Collector{c.queued, c.queueDepth, c.injections, c.replayed, c.forwarded, c.faults} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// EntryQueued records an entry appended to the queue.
func (c *Collector) EntryQueued(kind string, depth int) {
	if c == nil {
		return
	}
	c.queued.WithLabelValues(kind).Inc()
	c.queueDepth.Set(float64(depth))
}

// QueueDrained records that the queue was handed to replay.
func (c *Collector) QueueDrained() {
	if c == nil {
		return
	}
	c.queueDepth.Set(0)
}

// Injected records a bundle injection.
func (c *Collector) Injected() {
	if c == nil {
		return
	}
	c.injections.Inc()
}

// CallReplayed records a queued call replayed against the SDK.
func (c *Collector) CallReplayed(method string) {
	if c == nil {
		return
	}
	c.replayed.WithLabelValues(method).Inc()
}

// SignalForwarded records a queued error or rejection forwarded to the SDK.
func (c *Collector) SignalForwarded(kind string) {
	if c == nil {
		return
	}
	c.forwarded.WithLabelValues(kind).Inc()
}

// Fault records an internal fault caught at boundary.
func (c *Collector) Fault(boundary string) {
	if c == nil {
		return
	}
	c.faults.WithLabelValues(boundary).Inc()
}
