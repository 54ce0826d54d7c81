// Package observability concentra las métricas Prometheus del servicio.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pet_tracker",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Local cache lookups by collection and result (hit|miss).",
	}, []string{"collection", "result"})

	cacheErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pet_tracker",
		Subsystem: "cache",
		Name:      "errors_total",
		Help:      "Local cache failures swallowed by the store, by operation.",
	}, []string{"op"})

	cacheRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pet_tracker",
		Subsystem: "cache",
		Name:      "refreshes_total",
		Help:      "Full-collection cache refreshes after a remote write, by collection.",
	}, []string{"collection"})

	blobDeleteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pet_tracker",
		Subsystem: "blob",
		Name:      "delete_failures_total",
		Help:      "Best-effort photo deletions that failed and were ignored.",
	})

	interstitialsTriggered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pet_tracker",
		Subsystem: "interstitial",
		Name:      "triggered_total",
		Help:      "Times the interaction counter asked the client to show an interstitial.",
	})
)

func init() {
	prometheus.MustRegister(cacheLookups, cacheErrors, cacheRefreshes, blobDeleteFailures, interstitialsTriggered)
}

func RecordCacheHit(collection string)  { cacheLookups.WithLabelValues(collection, "hit").Inc() }
func RecordCacheMiss(collection string) { cacheLookups.WithLabelValues(collection, "miss").Inc() }

// RecordCacheError cuenta fallos de get|set|delete|decode.
func RecordCacheError(op string) { cacheErrors.WithLabelValues(op).Inc() }

func RecordCacheRefresh(collection string) { cacheRefreshes.WithLabelValues(collection).Inc() }

func RecordBlobDeleteFailure() { blobDeleteFailures.Inc() }

func RecordInterstitial() { interstitialsTriggered.Inc() }
