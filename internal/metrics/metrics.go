// Package metrics holds the Prometheus collectors of the vault client and
// the evidence store server. All methods are safe on a nil receiver so
// components can run without metrics in tests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Vault tracks the local registry, processor and sync engine.
type Vault struct {
	EntriesAdded  prometheus.Counter
	ProcessorRuns *prometheus.CounterVec
	SyncAttempts  *prometheus.CounterVec
	QueuePending  prometheus.Gauge
	AuditDropped  prometheus.Counter
	UploadLatency prometheus.Histogram
}

// NewVault registers the vault collectors with reg.
func NewVault(reg prometheus.Registerer) *Vault {
	f := promauto.With(reg)
	return &Vault{
		EntriesAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "evidence_entries_added_total",
			Help: "Evidence entries added to the local registry",
		}),
		ProcessorRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evidence_processor_runs_total",
			Help: "Daily processing runs by outcome",
		}, []string{"outcome"}),
		SyncAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evidence_sync_attempts_total",
			Help: "Sync task attempts by result (success, retry, failed)",
		}, []string{"result"}),
		QueuePending: f.NewGauge(prometheus.GaugeOpts{
			Name: "evidence_sync_queue_pending",
			Help: "Sync tasks waiting in the pending state",
		}),
		AuditDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "evidence_audit_dropped_total",
			Help: "Audit records dropped because the buffer was full",
		}),
		UploadLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "evidence_sync_task_duration_seconds",
			Help:    "Duration of a single sync task attempt",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Vault) EntryAdded() {
	if m == nil {
		return
	}
	m.EntriesAdded.Inc()
}

func (m *Vault) ProcessorRun(outcome string) {
	if m == nil {
		return
	}
	m.ProcessorRuns.WithLabelValues(outcome).Inc()
}

func (m *Vault) SyncAttempt(result string, seconds float64) {
	if m == nil {
		return
	}
	m.SyncAttempts.WithLabelValues(result).Inc()
	m.UploadLatency.Observe(seconds)
}

func (m *Vault) SetQueuePending(n int) {
	if m == nil {
		return
	}
	m.QueuePending.Set(float64(n))
}

func (m *Vault) AuditDrop() {
	if m == nil {
		return
	}
	m.AuditDropped.Inc()
}

// Server tracks the remote evidence store.
type Server struct {
	Uploads  *prometheus.CounterVec
	Requests *prometheus.CounterVec
}

// NewServer registers the server collectors with reg.
func NewServer(reg prometheus.Registerer) *Server {
	f := promauto.With(reg)
	return &Server{
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evidence_server_uploads_total",
			Help: "Uploads received by result (created, duplicate, error)",
		}, []string{"result"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evidence_server_requests_total",
			Help: "gRPC requests by method and status code",
		}, []string{"method", "code"}),
	}
}

func (m *Server) Upload(result string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(result).Inc()
}

func (m *Server) Request(method, code string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, code).Inc()
}

// Handler exposes the collectors gathered by g over HTTP.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
