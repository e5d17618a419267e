package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Duration of timed operations, labelled by op name and outcome.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "runmap",
		Subsystem: "ops",
		Name:      "duration_seconds",
		Help:      "Duration of timed operations",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"op", "outcome"})

	SegmentsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "runmap",
		Subsystem: "segments",
		Name:      "resolved_total",
		Help:      "Segment resolutions by strategy and outcome",
	}, []string{"strategy", "outcome"})

	RunMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "runmap",
		Subsystem: "run",
		Name:      "mutations_total",
		Help:      "Committed or rejected mutations of the current run",
	}, []string{"kind", "outcome"})

	RunDistance = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "runmap",
		Subsystem: "run",
		Name:      "distance_meters",
		Help:      "Total distance of the current run",
	})
)

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
