// Package telemetry exposes Prometheus metrics for the CampusWatch backend.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all CampusWatch Prometheus metrics.
type Metrics struct {
	// Article pipeline metrics
	ArticlesFetched  prometheus.Counter
	ArticlesAccepted prometheus.Counter
	ArticlesRejected *prometheus.CounterVec
	QueriesFailed    prometheus.Counter
	FetchDuration    prometheus.Histogram

	// LLM metrics
	LLMCalls *prometheus.CounterVec

	// Analysis cache metrics
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	RefreshDuration prometheus.Histogram
	FallbacksServed prometheus.Counter
}

// Provider wraps the metrics registry.
type Provider struct {
	Metrics *Metrics
}

// NewProvider initializes all metrics with the default registry.
func NewProvider() *Provider {
	return &Provider{Metrics: initMetrics()}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	return &Metrics{
		ArticlesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campuswatch_articles_fetched_total",
			Help: "Raw articles returned by the news source across all queries",
		}),
		ArticlesAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campuswatch_articles_accepted_total",
			Help: "Articles that passed crime-relevance filtering",
		}),
		ArticlesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campuswatch_articles_rejected_total",
			Help: "Articles rejected during filtering, by reason",
		}, []string{"reason"}),
		QueriesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campuswatch_news_queries_failed_total",
			Help: "News source queries that errored and were skipped",
		}),
		FetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "campuswatch_fetch_duration_seconds",
			Help:    "Duration of a full article fetch cycle",
			Buckets: prometheus.DefBuckets,
		}),
		LLMCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campuswatch_llm_calls_total",
			Help: "LLM calls by stage and outcome",
		}, []string{"stage", "outcome"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campuswatch_analysis_cache_hits_total",
			Help: "Analysis requests served from a fresh cached record",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campuswatch_analysis_cache_misses_total",
			Help: "Analysis requests that triggered a recompute",
		}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "campuswatch_analysis_refresh_duration_seconds",
			Help:    "Duration of a full analysis refresh cycle",
			Buckets: []float64{1, 5, 10, 30, 60, 120},
		}),
		FallbacksServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campuswatch_analysis_fallbacks_total",
			Help: "Analysis cycles that fell back to the mock payload",
		}),
	}
}
