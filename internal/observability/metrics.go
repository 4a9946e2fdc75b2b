package observability

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	registrySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "railwatch",
			Subsystem: "registry",
			Name:      "trains",
			Help:      "Trains currently tracked in the registry.",
		},
	)
	registryRebuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "railwatch",
			Subsystem: "registry",
			Name:      "rebuilds_total",
			Help:      "Wholesale registry rebuilds.",
		},
		[]string{"reason"},
	)
	trainsRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "railwatch",
			Subsystem: "continuity",
			Name:      "trains_removed_total",
			Help:      "Derived train-removed notifications published.",
		},
		[]string{"remains"},
	)
	eventsHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "railwatch",
			Subsystem: "bus",
			Name:      "events_handled_total",
			Help:      "Host lifecycle events consumed by the reconciler.",
		},
		[]string{"type"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(registrySize, registryRebuilds, trainsRemoved, eventsHandled)
	})
}

func SetRegistrySize(n int) {
	RegisterMetrics()
	registrySize.Set(float64(n))
}

func RecordRebuild(reason string, size int) {
	RegisterMetrics()
	registryRebuilds.WithLabelValues(reason).Inc()
	registrySize.Set(float64(size))
}

func RecordTrainRemoved(hasRemains bool) {
	RegisterMetrics()
	trainsRemoved.WithLabelValues(strconv.FormatBool(hasRemains)).Inc()
}

func RecordEventHandled(eventType string) {
	RegisterMetrics()
	eventsHandled.WithLabelValues(eventType).Inc()
}
