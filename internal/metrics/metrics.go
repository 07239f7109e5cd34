package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EventSaves = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "gantt_event_saves_total", Help: "Total chart event saves"},
	)
	EventDeletes = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "gantt_event_deletes_total", Help: "Total chart event deletions"},
	)
	ValidationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "gantt_event_validation_failures_total", Help: "Total rejected chart event mutations"},
	)
	VersionPolls = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "gantt_version_polls_total", Help: "Total project version poll requests"},
	)
)

func Register() {
	prometheus.MustRegister(EventSaves, EventDeletes, ValidationFailures, VersionPolls)
}
