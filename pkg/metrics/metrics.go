package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikeToggles counts like toggles by target ("post", "comment") and
	// result ("liked", "unliked", "not_found", "conflict", "error").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "microblog",
		Name:      "like_toggles_total",
		Help:      "Like toggles by target and outcome.",
	}, []string{"target", "result"})

	// AuthorPlaceholders counts author lookups that fell back to the deleted-user view.
	AuthorPlaceholders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "microblog",
		Name:      "author_placeholders_total",
		Help:      "Author resolutions served by the placeholder, by reason.",
	}, []string{"reason"})

	EnrichmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "microblog",
		Name:      "feed_enrichment_failures_total",
		Help:      "Per-post enrichment steps that degraded to a default.",
	}, []string{"step"})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "microblog",
		Name:      "search_duration_seconds",
		Help:      "Latency of feed/search composition.",
		Buckets:   prometheus.DefBuckets,
	})
)
