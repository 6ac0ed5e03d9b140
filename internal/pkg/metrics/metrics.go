package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes by kind. kind is "none" when the event classified to
// nothing; outcome matches the pipeline's terminal status strings.
var DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "okurimukae",
	Subsystem: "dispatch",
	Name:      "events_total",
	Help:      "Change events processed, by notification kind and terminal outcome.",
}, []string{"kind", "outcome"})

// DeliverySeconds observes the end-to-end FCM delivery latency, including
// the OAuth exchange when the cached token has expired.
var DeliverySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "okurimukae",
	Subsystem: "dispatch",
	Name:      "delivery_seconds",
	Help:      "FCM delivery latency in seconds.",
	Buckets:   prometheus.DefBuckets,
})
