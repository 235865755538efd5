// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ResolutionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolution_total",
			Help: "Cumulative number of resolution requests, by variant.",
		}, []string{"variant"})

	ResolutionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolution_errors_total",
			Help: "Cumulative number of failed resolutions, by variant.",
		}, []string{"variant"})

	LanguageFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "language_fallback_total",
			Help: "Resolutions answered by a language other than the requested one.",
		})

	DomainFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "domain_fallback_total",
			Help: "Resolutions answered by the fallback domain.",
		})

	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolution_cache_hits_total",
			Help: "Resolution results served from the cache.",
		})

	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolution_cache_misses_total",
			Help: "Resolution requests that fell through to the store.",
		})

	CacheInvalidationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolution_cache_invalidations_total",
			Help: "Cache entries dropped by write-path invalidation.",
		})
)

func init() {
	prometheus.MustRegister(
		ResolutionTotal,
		ResolutionErrorsTotal,
		LanguageFallbackTotal,
		DomainFallbackTotal,
		CacheHitsTotal,
		CacheMissesTotal,
		CacheInvalidationsTotal,
	)
}
