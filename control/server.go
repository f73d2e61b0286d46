// control/server.go
// Author: momentics <momentics@gmail.com>
//
// HTTP surface for metrics and debug probes.

package control

import (
	"net/http"
	"time"
)

// NewMetricsServer serves /metrics from metrics and /debug/state from probes on addr.
// The caller owns ListenAndServe and Shutdown.
func NewMetricsServer(addr string, metrics *MetricsRegistry, probes *DebugProbes) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/debug/state", probes)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
