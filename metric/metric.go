package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var SecondsBuckets = prometheus.ExponentialBuckets(0.0001, 3, 16)

var (
	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propescape",
		Subsystem: "validator",
		Name:      "checks_total",
		Help:      "Characters checked against a property escape",
	}, []string{"polarity"})
	ViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propescape",
		Subsystem: "validator",
		Name:      "violations_total",
		Help:      "",
	}, []string{"kind"})
	PatternsCompiled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "propescape",
		Subsystem: "validator",
		Name:      "patterns_compiled_total",
		Help:      "",
	})
	ValidateDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "propescape",
		Subsystem: "validator",
		Name:      "validate_duration_seconds",
		Help:      "",
		Buckets:   SecondsBuckets,
	})

	StageDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "propescape",
		Subsystem: "runner",
		Name:      "stage_duration_seconds",
		Help:      "Time spent per case in each stage",
		Buckets:   SecondsBuckets,
	}, []string{"stage"})
	TestStringChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "propescape",
		Subsystem: "builder",
		Name:      "test_string_chars",
		Help:      "Characters emitted per test string",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	})

	CasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propescape",
		Subsystem: "runner",
		Name:      "cases_total",
		Help:      "",
	}, []string{"result"})
)
