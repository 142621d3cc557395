package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepsTotal counts dispatch sweeps, successful or not.
	SweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adboard_dispatch_sweeps_total",
		Help: "Number of dispatch sweeps executed",
	})

	// FireTimesClaimed counts occurrences claimed for delivery.
	FireTimesClaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adboard_dispatch_claimed_total",
		Help: "Number of fire times claimed by dispatch sweeps",
	})

	// DeliveryResults counts finalized deliveries by result.
	DeliveryResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adboard_dispatch_deliveries_total",
		Help: "Number of finalized deliveries by result",
	}, []string{"result"})

	// SweepDuration observes how long a full sweep takes.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adboard_dispatch_sweep_duration_seconds",
		Help:    "Duration of dispatch sweeps",
		Buckets: prometheus.DefBuckets,
	})
)
