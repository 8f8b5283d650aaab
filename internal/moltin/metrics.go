package moltin

import "github.com/prometheus/client_golang/prometheus"

var (
	// backendCalls counts HTTP calls against the backend API by method and
	// status. Paths are omitted to keep cardinality bounded (ids vary).
	backendCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_backend_requests_total",
			Help: "Total number of HTTP requests made to the e-commerce backend.",
		},
		[]string{"method", "status"},
	)

	// tokenRefreshes counts successful client-credentials exchanges. A healthy
	// process performs roughly one per token lifetime.
	tokenRefreshes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "store_backend_token_refreshes_total",
			Help: "Total number of bearer token exchanges performed.",
		},
	)
)

func init() {
	prometheus.MustRegister(backendCalls, tokenRefreshes)
}
