package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products created",
	})

	ReservationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_total",
		Help: "Total number of units reserved",
	})

	ReservationsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_cancelled_total",
		Help: "Total number of reservations cancelled",
	})

	ReservationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_failed_total",
		Help: "Total number of failed reservations",
	}, []string{"reason"})

	SalesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_total",
		Help: "Total number of completed sales",
	})

	SalesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_failed_total",
		Help: "Total number of failed sale attempts",
	}, []string{"reason"})

	SalePriceHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sale_price",
		Help:    "Distribution of discounted sale prices",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	PromotionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promotions_started_total",
		Help: "Total number of promotions started",
	})

	StockDepletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_depleted_total",
		Help: "Total number of products fully sold out",
	})

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
