package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EquipmentMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_mutations_total",
			Help:      "Total number of successful equipment writes by operation",
		},
		[]string{"operation"},
	)

	EquipmentStatusAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_status_adjustments_total",
			Help:      "Total number of status adjustments by bucket and result",
		},
		[]string{"status", "result"},
	)

	StatsReportDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stats_report_duration_seconds",
			Help:      "Time spent loading and aggregating a stats report",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"report"},
	)

	FeedConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_connections_active",
			Help:      "Number of open equipment feed WebSocket connections",
		},
	)

	FeedEventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_broadcast_total",
			Help:      "Total number of equipment change events sent to the feed",
		},
		[]string{"type"},
	)

	FeedEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_dropped_total",
			Help:      "Total number of feed events dropped for slow clients",
		},
	)

	FeedDisconnections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_disconnections_total",
			Help:      "Total number of feed disconnections by reason",
		},
		[]string{"reason"},
	)
)
