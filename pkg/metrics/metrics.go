// Package metrics provides prometheus instrumentation for the windrose
// read and aggregation path. Metric vectors are registered once at package
// load; components bind their label values through a Collector so that
// recording in the hot loop is a single atomic add.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windrose_records_processed_total",
			Help: "Total measurement records folded into aggregates",
		},
		[]string{"component"},
	)

	bytesRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windrose_bytes_read_total",
			Help: "Total bytes consumed from the input source",
		},
		[]string{"component"},
	)

	malformedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windrose_malformed_records_total",
			Help: "Records that failed to parse (each one aborts its run)",
		},
		[]string{"component"},
	)

	segmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "windrose_segment_duration_seconds",
			Help:    "Wall-clock duration of processing one segment",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"component"},
	)
)

// Collector binds the shared metric vectors to one component's label.
type Collector struct {
	records   prometheus.Counter
	bytes     prometheus.Counter
	malformed prometheus.Counter
	segments  prometheus.Observer
	enabled   bool
}

// NewCollector creates a collector labeled with the component name.
func NewCollector(component string) *Collector {
	return &Collector{
		records:   recordsProcessed.WithLabelValues(component),
		bytes:     bytesRead.WithLabelValues(component),
		malformed: malformedRecords.WithLabelValues(component),
		segments:  segmentDuration.WithLabelValues(component),
		enabled:   true,
	}
}

// NewNopCollector creates a collector that records nothing. Used when
// observability is disabled in configuration.
func NewNopCollector() *Collector {
	return &Collector{}
}

// AddRecords records n processed records.
func (c *Collector) AddRecords(n int) {
	if c.enabled {
		c.records.Add(float64(n))
	}
}

// AddBytes records n bytes consumed from the source.
func (c *Collector) AddBytes(n int) {
	if c.enabled {
		c.bytes.Add(float64(n))
	}
}

// IncMalformed records a parse failure.
func (c *Collector) IncMalformed() {
	if c.enabled {
		c.malformed.Inc()
	}
}

// ObserveSegment records the duration of one processed segment.
func (c *Collector) ObserveSegment(d time.Duration) {
	if c.enabled {
		c.segments.Observe(d.Seconds())
	}
}
