package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// Booking metrics
	BookingsTotal    prometheus.Counter
	BookingRejected  *prometheus.CounterVec
	BookingLatency   prometheus.Histogram
	TransitionsTotal *prometheus.CounterVec

	// Store metrics
	StoreOperations *prometheus.CounterVec
	StoreLatency    *prometheus.HistogramVec
	StoreConflicts  prometheus.Counter

	// Availability cache metrics
	SlotCacheHits   prometheus.Counter
	SlotCacheMisses prometheus.Counter
}

// New creates and registers all application metrics.
func New(namespace string) *Metrics {
	return &Metrics{
		BookingsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Total number of successfully created appointments",
		}),
		BookingRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "Booking requests rejected, by reason",
		}, []string{"reason"}),
		BookingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_duration_seconds",
			Help:      "Time spent validating and committing a booking",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Appointment status transitions, by target status",
		}, []string{"to_status"}),
		StoreOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Entity store operations, by collection and operation",
		}, []string{"collection", "operation"}),
		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Entity store operation latency",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"collection", "operation"}),
		StoreConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_version_conflicts_total",
			Help:      "Compare-and-swap writes rejected because of a stale version",
		}),
		SlotCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_cache_hits_total",
			Help:      "Unavailable-slot lookups served from cache",
		}),
		SlotCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_cache_misses_total",
			Help:      "Unavailable-slot lookups recomputed from the store",
		}),
	}
}
