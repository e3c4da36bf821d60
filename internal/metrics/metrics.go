package metrics

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ObjectsDrained = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "site_deploy",
		Name:      "objects_drained_total",
		Help:      "Total stale objects deleted during bucket reconciliation.",
	})
	FilesUploaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "site_deploy",
		Name:      "files_uploaded_total",
		Help:      "Total files uploaded successfully.",
	})
	BytesUploaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "site_deploy",
		Name:      "bytes_uploaded_total",
		Help:      "Total bytes uploaded successfully.",
	})
	UploadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "site_deploy",
		Name:      "upload_failures_total",
		Help:      "Total per-file upload failures.",
	})
	DeploymentsRun = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "site_deploy",
		Name:      "deployments_total",
		Help:      "Total deployment runs started.",
	})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(ObjectsDrained, FilesUploaded, BytesUploaded, UploadFailures, DeploymentsRun)
}

// Serve starts a /metrics server on the given addr (e.g., ":9090"). Non-blocking when run in goroutine.
func Serve(addr string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, nil)
}

// AddrFromEnv returns listen address from METRICS_ADDR or default ":9090".
func AddrFromEnv() string {
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		return v
	}
	return ":9090"
}
