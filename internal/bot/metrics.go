package bot

import "github.com/prometheus/client_golang/prometheus"

var (
	// eventsTotal counts handled conversation events by the state they were
	// dispatched in and the event kind. Both label sets are closed enums, so
	// cardinality stays bounded.
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_events_total",
			Help: "Total number of conversation events dispatched.",
		},
		[]string{"state", "kind"},
	)

	// handlerErrors counts swallowed handler failures by state; "lookup"
	// covers failures before dispatch (state resolution).
	handlerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_handler_errors_total",
			Help: "Total number of swallowed conversation handler errors.",
		},
		[]string{"state"},
	)

	// handlerDuration records handler execution time per state, backend
	// calls included.
	handlerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_handler_duration_seconds",
			Help:    "Duration of conversation handlers in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"state"},
	)
)

func init() {
	prometheus.MustRegister(eventsTotal, handlerErrors, handlerDuration)
}
