package main

import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Version is set at build time with -ldflags.
	Version   = "dev"
	GoVersion = runtime.Version()
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "A metric with a constant '1' value labeled by version, and goversion.",
		},
		[]string{"version", "goversion"},
	)
	admitOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admit_operations",
			Help: "Incremented for each admit operation, labeled by outcome.",
		},
		[]string{"outcome"},
	)
	admitDur = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Name: "admit_duration",
			Help: "Summary of how long an admit operation takes to complete, in microseconds.",
		},
	)
	commitOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commit_operations",
			Help: "Incremented for each commit operation, labeled by success or failure.",
		},
		[]string{"success"},
	)
	commitDur = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Name: "commit_duration",
			Help: "Summary of how long a commit operation takes to complete, in microseconds.",
		},
	)
	logSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "action_log_size",
			Help: "Number of actions in the action log.",
		},
	)
	requestCtr = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests",
			Help: "Incremented for each API request received.",
		},
		[]string{"path", "status"},
	)
)

func init() {
	buildInfo.WithLabelValues(Version, GoVersion).Set(1)
	prometheus.MustRegister(buildInfo)
	prometheus.MustRegister(admitOps)
	prometheus.MustRegister(admitDur)
	prometheus.MustRegister(commitOps)
	prometheus.MustRegister(commitDur)
	prometheus.MustRegister(logSize)
	prometheus.MustRegister(requestCtr)
}

// metricsServer returns the server that exposes metrics and debugging
// endpoints.
func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(rw http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/" {
			fmt.Fprintln(rw, "Hi, I'm a roster metrics and debugging server!")
		} else {
			rw.WriteHeader(404)
			fmt.Fprintln(rw, "404 not found")
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.HandleFunc("/debug/version", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprintf(w, "Version: %s, GoVersion: %s", Version, GoVersion)
	})

	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}
