package metrics

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DocumentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notespot",
		Name:      "documents_created_total",
		Help:      "Catalog records created successfully.",
	})
	CreatesFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notespot",
		Name:      "creates_failed_total",
		Help:      "Create workflow failures by stage.",
	}, []string{"stage"})
	CompensatingDeletes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notespot",
		Name:      "compensating_deletes_total",
		Help:      "Object-store deletes issued to undo a stored blob after a failed catalog save.",
	})
	CompensationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notespot",
		Name:      "compensation_failures_total",
		Help:      "Compensating deletes that themselves failed, leaving an orphaned object.",
	})
	DocumentsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notespot",
		Name:      "documents_deleted_total",
		Help:      "Catalog records removed via the delete workflow.",
	})
	Downloads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notespot",
		Name:      "downloads_total",
		Help:      "Download tokens resolved successfully.",
	})
	ExpiredLinks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notespot",
		Name:      "expired_links_total",
		Help:      "Download tokens that resolved to no record.",
	})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(
		DocumentsCreated, CreatesFailed, CompensatingDeletes,
		CompensationFailures, DocumentsDeleted, Downloads, ExpiredLinks,
	)
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
