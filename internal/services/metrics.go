package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// moodLogsTotal counts committed mood logs by sentiment label.
	moodLogsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_logs_total",
			Help: "Total number of mood logs recorded, by sentiment label.",
		},
		[]string{"label"},
	)

	// utilizationTotal counts accepted utilization events. variant is
	// "resource" for the persisted endpoint and "directory" for the
	// manager-backed one.
	utilizationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resource_utilization_total",
			Help: "Total number of resource utilization events, by endpoint variant and action.",
		},
		[]string{"variant", "action"},
	)
)

const (
	variantResource  = "resource"
	variantDirectory = "directory"
)

func init() {
	prometheus.MustRegister(moodLogsTotal, utilizationTotal)
}
