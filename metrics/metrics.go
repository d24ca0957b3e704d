// Package metrics exposes Prometheus instrumentation for the turn pipeline
// and the memory system. Collectors are registered on the default registry;
// embedders serve them however they expose promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts completed turns by outcome: ok, partial, fallback,
	// aborted.
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aria",
		Subsystem: "engine",
		Name:      "turns_total",
		Help:      "Completed turns by outcome.",
	}, []string{"outcome"})

	// GenerationAttempts observes how many generation attempts a turn needed.
	GenerationAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aria",
		Subsystem: "engine",
		Name:      "generation_attempts",
		Help:      "Generation attempts per turn, including retries.",
		Buckets:   []float64{1, 2, 3, 4, 5},
	})

	// GenerationDuration observes the wall time of the generating stage.
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aria",
		Subsystem: "engine",
		Name:      "generation_seconds",
		Help:      "Generating stage duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	// CommitFailures counts failed commit sub-steps by step name.
	CommitFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aria",
		Subsystem: "engine",
		Name:      "commit_failures_total",
		Help:      "Failed commit sub-steps; earlier sub-steps are never rolled back.",
	}, []string{"step"})

	// MemoryEvictions counts live working-set evictions by memory class.
	MemoryEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aria",
		Subsystem: "memory",
		Name:      "evictions_total",
		Help:      "Working-set evictions by memory class.",
	}, []string{"class"})

	// MemoryPromotions counts short-term to long-term promotions.
	MemoryPromotions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aria",
		Subsystem: "memory",
		Name:      "promotions_total",
		Help:      "Short-term entries promoted to long-term.",
	})
)
