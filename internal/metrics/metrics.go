package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Business Metrics
	BalanceOperations    *prometheus.CounterVec
	PurchasesTotal       *prometheus.CounterVec
	CompensationFailures prometheus.Counter
	ProofsTotal          *prometheus.CounterVec
	ItemsExpired         prometheus.Counter
	BroadcastMessages    *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
	ChatMessagesTotal    *prometheus.CounterVec
	UsersTotal           prometheus.Gauge
	InventoryItems       *prometheus.GaugeVec
	PendingProofs        prometheus.Gauge

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec
	DBQueriesTotal     *prometheus.CounterVec
	DBConnectionErrors prometheus.Counter

	// System Metrics
	ServiceUptime    prometheus.Gauge
	ServiceVersion   *prometheus.GaugeVec
	Goroutines       prometheus.Gauge
	MemoryUsageBytes *prometheus.GaugeVec

	// Validation Metrics
	ValidationErrors *prometheus.CounterVec
}

// NewMetrics registers every collector on reg. The binary passes
// prometheus.DefaultRegisterer; tests pass a fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamstore_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "streamstore_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "streamstore_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		HTTPResponseSizeBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "streamstore_http_response_size_bytes",
				Help:    "Size of HTTP responses in bytes",
				Buckets: []float64{100, 1000, 10_000, 100_000, 1_000_000},
			},
			[]string{"method", "path", "status_code"},
		),

		// Business Metrics
		BalanceOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamstore_balance_operations_total",
				Help: "Total number of balance operations",
			},
			[]string{"kind", "status"},
		),
		PurchasesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamstore_purchases_total",
				Help: "Total number of purchase attempts by outcome",
			},
			[]string{"mode", "outcome"},
		),
		CompensationFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "streamstore_compensation_failures_total",
				Help: "Refunds that failed after a debit; each one needs manual review",
			},
		),
		ProofsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamstore_payment_proofs_total",
				Help: "Total number of payment proofs by status",
			},
			[]string{"status"},
		),
		ItemsExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "streamstore_items_expired_total",
				Help: "Total number of inventory items moved to expired",
			},
		),
		BroadcastMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamstore_broadcast_messages_total",
				Help: "Total number of broadcast deliveries",
			},
			[]string{"status"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamstore_notifications_total",
				Help: "Total number of outbound chat messages",
			},
			[]string{"status"},
		),
		ChatMessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamstore_chat_messages_total",
				Help: "Total number of inbound chat messages by command",
			},
			[]string{"command"},
		),
		UsersTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "streamstore_users",
				Help: "Number of registered customers",
			},
		),
		InventoryItems: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "streamstore_inventory_items",
				Help: "Number of inventory items by status",
			},
			[]string{"status"},
		),
		PendingProofs: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "streamstore_payment_proofs_pending",
				Help: "Number of payment proofs waiting for review",
			},
		),

		// Database Metrics
		DBConnectionsInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "streamstore_db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "streamstore_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "streamstore_db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamstore_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		DBConnectionErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "streamstore_db_connection_errors_total",
				Help: "Total number of database connection errors",
			},
		),

		// System Metrics
		ServiceUptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "streamstore_service_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
		ServiceVersion: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "streamstore_service_version_info",
				Help: "Service version information (labels: version, commit, build_date)",
			},
			[]string{"version", "commit", "build_date"},
		),
		Goroutines: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "streamstore_goroutines",
				Help: "Number of goroutines currently running",
			},
		),
		MemoryUsageBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "streamstore_memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
			[]string{"type"},
		),

		// Validation Metrics
		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamstore_validation_errors_total",
				Help: "Total number of validation errors",
			},
			[]string{"field", "tag"},
		),
	}
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
	m.HTTPResponseSizeBytes.WithLabelValues(method, path, statusCode).Observe(float64(responseSize))
}

func (m *Metrics) RecordBalanceOperation(kind, status string) {
	m.BalanceOperations.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) RecordPurchase(mode, outcome string) {
	m.PurchasesTotal.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) RecordCompensationFailure() {
	m.CompensationFailures.Inc()
}

func (m *Metrics) RecordProof(status string) {
	m.ProofsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordItemsExpired(count int64) {
	m.ItemsExpired.Add(float64(count))
}

func (m *Metrics) RecordBroadcast(sent, failed int) {
	m.BroadcastMessages.WithLabelValues("sent").Add(float64(sent))
	m.BroadcastMessages.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) RecordNotification(status string) {
	m.NotificationsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordChatMessage(command string) {
	m.ChatMessagesTotal.WithLabelValues(command).Inc()
}

// SetStoreLevels publishes the current customer count and stock per status.
func (m *Metrics) SetStoreLevels(users, available, sold, expired, pendingProofs int64) {
	m.UsersTotal.Set(float64(users))
	m.InventoryItems.WithLabelValues("available").Set(float64(available))
	m.InventoryItems.WithLabelValues("sold").Set(float64(sold))
	m.InventoryItems.WithLabelValues("expired").Set(float64(expired))
	m.PendingProofs.Set(float64(pendingProofs))
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func (m *Metrics) RecordDBConnectionError() {
	m.DBConnectionErrors.Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

// UpdateSystemMetrics updates system-level metrics (goroutines, uptime, memory).
func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))

	m.MemoryUsageBytes.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	m.MemoryUsageBytes.WithLabelValues("sys").Set(float64(memStats.Sys))
	m.MemoryUsageBytes.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
	m.MemoryUsageBytes.WithLabelValues("heap_inuse").Set(float64(memStats.HeapInuse))
}

func (m *Metrics) SetServiceVersion(version, commit, buildDate string) {
	m.ServiceVersion.WithLabelValues(version, commit, buildDate).Set(1)
}
