package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlanningMutations counts planning store mutations by operation.
	PlanningMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trip_planner",
		Name:      "planning_mutations_total",
		Help:      "Planning store mutations by operation.",
	}, []string{"operation"})

	// MirrorFailures counts slice writes that could not be persisted.
	MirrorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trip_planner",
		Name:      "mirror_failures_total",
		Help:      "Persisted slice writes that failed, by slice.",
	}, []string{"slice"})

	// SliceParseFailures counts stored values that could not be decoded and were treated as absent.
	SliceParseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trip_planner",
		Name:      "slice_parse_failures_total",
		Help:      "Persisted values that failed to decode, by slice.",
	}, []string{"slice"})

	SnapshotCaptures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trip_planner",
		Name:      "snapshot_captures_total",
		Help:      "Consolidated snapshots written.",
	})

	CheckoutOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trip_planner",
		Name:      "checkout_outcomes_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})

	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trip_planner",
		Name:      "aggregation_duration_seconds",
		Help:      "Time spent building a per-day itinerary view.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
	})

	SessionHydrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trip_planner",
		Name:      "session_hydrations_total",
		Help:      "Planning sessions rebuilt from persisted state.",
	})
)
