package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты доменных операций (label result)
const (
	ResultSuccess       = "success"
	ResultLotFull       = "lot_full"
	ResultAlreadyParked = "already_parked"
	ResultNotFound      = "not_found"
	ResultNotConfigured = "not_configured"
	ResultInvalidInput  = "invalid_input"
	ResultError         = "error"
)

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасно вызывать на nil-указателе (метрики выключены).
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal     *prometheus.CounterVec
	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCountTotal   *prometheus.GaugeVec

	ParkingEntriesTotal   *prometheus.CounterVec
	ParkingExitsTotal     *prometheus.CounterVec
	ParkingFeeAmount      *prometheus.HistogramVec
	ParkingAvailableSpots *prometheus.GaugeVec
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUseConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCountTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count_total",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		ParkingEntriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_entries_total",
			Help: "Vehicle entry attempts by result",
		}, []string{"service", "result"}),

		ParkingExitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_exits_total",
			Help: "Vehicle exit attempts by result",
		}, []string{"service", "result"}),

		ParkingFeeAmount: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parking_fee_amount",
			Help:    "Charged parking fee",
			Buckets: []float64{0, 5, 10, 20, 50, 100, 200, 500},
		}, []string{"service"}),

		ParkingAvailableSpots: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parking_available_spots",
			Help: "Current number of available parking spots",
		}, []string{"service"}),
	}
}

// ObserveHTTPRequest фиксирует завершённый HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный SQL запрос
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil && err != sql.ErrNoRows {
		status = "error"
	}
	m.DBQueriesTotal.WithLabelValues(m.serviceName, operation, status).Inc()
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauges connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(stats.OpenConnections))
	m.DBInUseConnections.WithLabelValues(m.serviceName).Set(float64(stats.InUse))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(stats.Idle))
	m.DBWaitCountTotal.WithLabelValues(m.serviceName).Set(float64(stats.WaitCount))
}

func (m *Metrics) RecordEntry(result string) {
	if m == nil {
		return
	}
	m.ParkingEntriesTotal.WithLabelValues(m.serviceName, result).Inc()
}

// RecordExit фиксирует выезд; fee учитывается только для успешных выездов
func (m *Metrics) RecordExit(result string, fee float64) {
	if m == nil {
		return
	}
	m.ParkingExitsTotal.WithLabelValues(m.serviceName, result).Inc()
	if result == ResultSuccess {
		m.ParkingFeeAmount.WithLabelValues(m.serviceName).Observe(fee)
	}
}

func (m *Metrics) SetAvailableSpots(available int) {
	if m == nil {
		return
	}
	m.ParkingAvailableSpots.WithLabelValues(m.serviceName).Set(float64(available))
}
