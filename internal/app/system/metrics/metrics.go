// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// LiveSubscriptions counts open real-time subscriptions.
	LiveSubscriptions = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "vesselhub",
		Name:      "live_subscriptions_active",
		Help:      "Open real-time collection subscriptions.",
	}, []string{"feed"})

	// LiveEmissions counts snapshots delivered to subscribers.
	LiveEmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesselhub",
		Name:      "live_emissions_total",
		Help:      "Snapshots delivered by real-time subscriptions.",
	}, []string{"feed"})

	// LiveErrors counts query or change stream failures.
	LiveErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesselhub",
		Name:      "live_errors_total",
		Help:      "Real-time subscription errors; the last snapshot is kept.",
	}, []string{"feed", "stage"})

	// GuardDecisions counts access decisions.
	GuardDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesselhub",
		Name:      "guard_decisions_total",
		Help:      "Route guard decisions by guard and outcome.",
	}, []string{"guard", "decision"})

	// Mutations counts writes by operation and result.
	Mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesselhub",
		Name:      "mutations_total",
		Help:      "Write operations by operation and result.",
	}, []string{"op", "result"})

	// PaymentCaptures counts capture confirmations by flow and result.
	PaymentCaptures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesselhub",
		Name:      "payment_captures_total",
		Help:      "Payment capture confirmations by flow and result.",
	}, []string{"flow", "result"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		LiveSubscriptions,
		LiveEmissions,
		LiveErrors,
		GuardDecisions,
		Mutations,
		PaymentCaptures,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Mutation records the outcome of a write.
func Mutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Mutations.WithLabelValues(op, result).Inc()
}
