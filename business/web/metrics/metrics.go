// Package metrics declares the prometheus collectors for the platform and
// exposes the scrape handler mounted on the debug mux.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors for the web layer.
var (
	Requests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "platform",
		Name:      "requests_total",
		Help:      "Number of requests handled by the public API.",
	})

	Errors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "platform",
		Name:      "request_errors_total",
		Help:      "Number of requests that resulted in an error.",
	})

	Panics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "platform",
		Name:      "panics_total",
		Help:      "Number of panics recovered in the handler chain.",
	})
)

// Collectors for the mining pipeline.
var (
	OperationsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "platform",
		Name:      "operations_started_total",
		Help:      "Number of mining operations started.",
	})

	Discoveries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "platform",
		Name:      "discoveries_total",
		Help:      "Number of mathematical work records produced.",
	})

	Blocks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "platform",
		Name:      "blocks_total",
		Help:      "Number of productive blocks aggregated.",
	})

	Validations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "platform",
		Name:      "validations_total",
		Help:      "Number of discovery validations recorded.",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "platform",
		Name:      "websocket_clients",
		Help:      "Number of websocket clients currently connected.",
	})
)

// Handler returns the prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
