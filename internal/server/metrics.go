package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "critex_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Extraction pipeline metrics
	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critex_extractions_total",
			Help: "Total number of extraction jobs",
		},
		[]string{"status"}, // status: completed, failed
	)

	extractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "critex_extraction_duration_seconds",
			Help:    "End-to-end extraction duration in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		},
	)

	recordsExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "critex_records_extracted",
			Help:    "Number of typed records extracted per document",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	imagesResolved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "critex_images_resolved",
			Help:    "Number of images resolved per document",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
	)

	// File upload metrics
	uploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "critex_upload_size_bytes",
			Help:    "Size of uploaded documents in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024, 50 * 1024 * 1024},
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "critex_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)
)
