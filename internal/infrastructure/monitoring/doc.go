/*
Package monitoring provides metrics collection for the curator service.

# Overview

This package implements Prometheus-based metrics for curation passes, the
catalog, the HTTP API and the event stream.

# Features

- Curation pass metrics (count, duration by category kind)
- View sizes after the last pass and the upgrade count
- Empty-catalog passes labeled by the host's refresh decision
- Failed passes by error kind
- HTTP request metrics (latency, throughput, size)
- WebSocket connection metrics

# Usage

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetricsWith(registry)

	router.Use(monitoring.Middleware(metrics))
	cur := curator.New(logger).WithMetrics(metrics)

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/metrics/json", func(c *gin.Context) { c.JSON(200, metrics.Snapshot()) })

Each server owns its registry, so several can run in one process.
*/
package monitoring
