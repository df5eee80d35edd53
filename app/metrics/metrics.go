package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Searches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wortschatz_searches_total",
		Help: "Total number of search requests",
	})
	Lookups = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wortschatz_lookups_total",
		Help: "Total number of single word lookups",
	})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wortschatz_cache_hits_total",
		Help: "Lookups answered from storage",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wortschatz_cache_misses_total",
		Help: "Lookups that went to Wiktionary",
	})
)

func init() {
	prometheus.MustRegister(Searches, Lookups, CacheHits, CacheMisses)
}
