// Package metrics defines the Prometheus counters of the runner.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StepsTotal counts pipeline steps by step name and final status.
	StepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bridgebot_steps_total", Help: "Pipeline steps by final status"},
		[]string{"step", "status"},
	)
	// AccountsTotal counts processed accounts by result: completed, failed, invalid_key or dial_error.
	AccountsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bridgebot_accounts_total", Help: "Accounts processed by result"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(StepsTotal, AccountsTotal)
}

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
