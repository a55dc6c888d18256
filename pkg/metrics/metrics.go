package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration  *prometheus.HistogramVec
	DBQueryErrors    *prometheus.CounterVec
	DBOpenConns      prometheus.Gauge
	DBInUseConns     prometheus.Gauge
	DBIdleConns      prometheus.Gauge
	DBWaitCount      prometheus.Gauge
	DBWaitDurationMs prometheus.Gauge

	TransitionsTotal     *prometheus.CounterVec
	TransitionRejections *prometheus.CounterVec
	ReapedDraftsTotal    prometheus.Counter
	NotificationFailures *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}),
		DBInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),
		DBIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),
		DBWaitDurationMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_duration_ms",
			Help:        "Total time blocked waiting for a new connection",
			ConstLabels: constLabels,
		}),

		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "status_transitions_total",
			Help:        "Applied status transitions",
			ConstLabels: constLabels,
		}, []string{"entity", "from", "to"}),
		TransitionRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "status_transition_rejections_total",
			Help:        "Rejected status transitions by reason",
			ConstLabels: constLabels,
		}, []string{"entity", "reason"}),
		ReapedDraftsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "reaped_draft_bookings_total",
			Help:        "Draft bookings expired by the reaper",
			ConstLabels: constLabels,
		}),
		NotificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notification_failures_total",
			Help:        "Notifications that could not be published",
			ConstLabels: constLabels,
		}, []string{"template"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConns,
		m.DBInUseConns,
		m.DBIdleConns,
		m.DBWaitCount,
		m.DBWaitDurationMs,
		m.TransitionsTotal,
		m.TransitionRejections,
		m.ReapedDraftsTotal,
		m.NotificationFailures,
	)

	return m
}

// RecordTransition учитывает примененный переход статуса
func (m *Metrics) RecordTransition(entity, from, to string) {
	m.TransitionsTotal.WithLabelValues(entity, from, to).Inc()
}

// RecordRejection учитывает отклоненный переход статуса
func (m *Metrics) RecordRejection(entity, reason string) {
	m.TransitionRejections.WithLabelValues(entity, reason).Inc()
}

// AddReaped учитывает просроченные черновики
func (m *Metrics) AddReaped(n int) {
	m.ReapedDraftsTotal.Add(float64(n))
}

// RecordNotificationFailure учитывает неотправленное уведомление
func (m *Metrics) RecordNotificationFailure(template string) {
	m.NotificationFailures.WithLabelValues(template).Inc()
}

// Nop реализация без записи метрик (когда метрики выключены)
type Nop struct{}

func (Nop) RecordTransition(entity, from, to string)  {}
func (Nop) RecordRejection(entity, reason string)     {}
func (Nop) AddReaped(n int)                           {}
func (Nop) RecordNotificationFailure(template string) {}
