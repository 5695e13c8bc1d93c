package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sinkMetrics holds the Prometheus metrics for one sink server.
type sinkMetrics struct {
	framesTotal       *prometheus.CounterVec
	frameErrors       *prometheus.CounterVec
	patchesApplied    prometheus.Counter
	activeDisplays    prometheus.Gauge
	activeConnections prometheus.Gauge
	bytesReceived     prometheus.Counter
}

func newSinkMetrics(reg prometheus.Registerer) *sinkMetrics {
	factory := promauto.With(reg)

	return &sinkMetrics{
		framesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "livedom",
			Name:      "frames_total",
			Help:      "Total number of protocol frames received by type",
		}, []string{"type"}),

		frameErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "livedom",
			Name:      "frame_errors_total",
			Help:      "Total number of rejected frames by reason",
		}, []string{"reason"}),

		patchesApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "livedom",
			Name:      "patches_applied_total",
			Help:      "Total number of patches applied to display documents",
		}),

		activeDisplays: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "livedom",
			Name:      "active_displays",
			Help:      "Number of live displays in the registry",
		}),

		activeConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "livedom",
			Name:      "active_connections",
			Help:      "Number of connected producers",
		}),

		bytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "livedom",
			Name:      "bytes_received_total",
			Help:      "Total websocket payload bytes received",
		}),
	}
}
