package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_completed_total",
		Help: "Total number of completed sales",
	})

	SalesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_failed_total",
		Help: "Total number of aborted sales",
	}, []string{"reason"})

	SaleAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_amount_total",
		Help: "Total amount charged across completed sales",
	}, []string{"method"})

	PaymentAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Total number of charge attempts",
	}, []string{"method"})

	PaymentFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_failed_total",
		Help: "Total number of declined charges",
	}, []string{"method"})

	SaleProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sale_processing_latency_seconds",
		Help:    "Latency of the full sale pipeline",
		Buckets: prometheus.DefBuckets,
	})

	StockLowAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_low_alerts_total",
		Help: "Total number of low-stock notifications fanned out",
	})

	StockLevelGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stock_level",
		Help: "Tracked stock level per product",
	}, []string{"product"})

	OrdersAdvancedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_advanced_total",
		Help: "Total number of order lifecycle transitions",
	}, []string{"status"})

	CommandsUndoneTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commands_undone_total",
		Help: "Total number of undo attempts",
	}, []string{"command"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
