package observability

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	ragRequests *prometheus.CounterVec
	ragLatency  *prometheus.HistogramVec

	uploads       *prometheus.CounterVec
	sourceStatus  *prometheus.CounterVec
	storageMode   *prometheus.GaugeVec
	storageBoot   *prometheus.CounterVec
	eventsDropped *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Enabled reports whether METRICS_ENABLED is set. Unset means enabled.
func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return true
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

func Current() *Metrics {
	return instance
}

// Init registers the process-wide collectors once.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		if !Enabled() {
			if log != nil {
				log.Info("metrics disabled")
			}
			return
		}
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// NewMetrics builds a Metrics backed by its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ragdash_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ragdash_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "ragdash_http_requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
		ragRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ragdash_rag_server_requests_total",
			Help: "Calls to the RAG server by operation and outcome.",
		}, []string{"operation", "outcome"}),
		ragLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ragdash_rag_server_request_duration_seconds",
			Help:    "RAG server call latency by operation.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ragdash_source_uploads_total",
			Help: "Source uploads by file type and outcome.",
		}, []string{"file_type", "outcome"}),
		sourceStatus: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ragdash_source_status_transitions_total",
			Help: "Source status transitions by target status.",
		}, []string{"status"}),
		storageMode: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ragdash_object_storage_mode_active",
			Help: "Active object storage mode (1 for the selected mode).",
		}, []string{"mode"}),
		storageBoot: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ragdash_object_storage_bootstrap_total",
			Help: "Object storage provider bootstrap attempts.",
		}, []string{"mode", "status", "code"}),
		eventsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ragdash_events_publish_failed_total",
			Help: "Source lifecycle events that could not be published.",
		}, []string{"type"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.WithLabelValues(method, route, code).Inc()
	m.apiLatency.WithLabelValues(method, route, code).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveRAGRequest records one outbound call. outcome is ok, unavailable or status_<code>.
func (m *Metrics) ObserveRAGRequest(operation, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.ragRequests.WithLabelValues(operation, outcome).Inc()
	m.ragLatency.WithLabelValues(operation).Observe(dur.Seconds())
}

func (m *Metrics) ObserveUpload(fileType, outcome string) {
	if m == nil {
		return
	}
	if fileType == "" {
		fileType = "unknown"
	}
	m.uploads.WithLabelValues(fileType, outcome).Inc()
}

func (m *Metrics) IncSourceStatus(status string) {
	if m == nil {
		return
	}
	m.sourceStatus.WithLabelValues(status).Inc()
}

func (m *Metrics) SetObjectStorageModeActive(mode string) {
	if m == nil {
		return
	}
	m.storageMode.Reset()
	m.storageMode.WithLabelValues(mode).Set(1)
}

func (m *Metrics) ObserveObjectStorageProviderBootstrap(mode, status, code string) {
	if m == nil {
		return
	}
	m.storageBoot.WithLabelValues(mode, status, code).Inc()
}

func (m *Metrics) IncEventPublishFailed(eventType string) {
	if m == nil {
		return
	}
	m.eventsDropped.WithLabelValues(eventType).Inc()
}
