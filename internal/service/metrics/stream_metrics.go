package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hashclock",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Signature cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)

	SkyClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hashclock",
			Subsystem: "sky",
			Name:      "clients",
			Help:      "Connected live sky stream clients",
		},
	)

	SkyBroadcasts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hashclock",
			Subsystem: "sky",
			Name:      "broadcasts_total",
			Help:      "Sky snapshots broadcast",
		},
	)

	ArchiveQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hashclock",
			Subsystem: "archive",
			Name:      "queue_depth",
			Help:      "Signatures waiting to be archived",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(CacheLookups, SkyClients, SkyBroadcasts, ArchiveQueueDepth)
	})
}
