package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterMetrics exposes the default Prometheus registry at /metrics.
// RegisterMetrics публикует реестр Prometheus по умолчанию на /metrics.
func RegisterMetrics(router gin.IRoutes) {
	RegisterMetricsFrom(router, prometheus.DefaultGatherer)
}

// RegisterMetricsFrom exposes a specific gatherer, used by tests.
// RegisterMetricsFrom публикует указанный сборщик, используется в тестах.
func RegisterMetricsFrom(router gin.IRoutes, gatherer prometheus.Gatherer) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
