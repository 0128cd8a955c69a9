// Package metrics expone contadores Prometheus del ciclo de vida de
// señales y trades.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sigmon_signals_total", Help: "Signals consumed from the feed, by result of handling"},
		[]string{"result"}, // accepted | invalid | exec_failed
	)
	OutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sigmon_outcomes_total", Help: "Resolved outcomes by status"},
		[]string{"status"},
	)
	PollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sigmon_broker_polls_total", Help: "Broker position polls issued by live monitors"},
		[]string{"symbol"},
	)
	CancellationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sigmon_sibling_cancellations_total", Help: "Sibling pending-order cancellation attempts"},
		[]string{"result"}, // ok | failed
	)
)

func init() {
	prometheus.MustRegister(SignalsTotal, OutcomesTotal, PollsTotal, CancellationsTotal)
}

// Serve arranca el endpoint /metrics en background y devuelve el server
// para que el caller pueda cerrarlo en el shutdown.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
