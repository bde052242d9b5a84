package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blag_lookups_total", Help: "Index lookups by kind and outcome.",
	}, []string{"kind", "result"})

	IndexEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blag_index_entries", Help: "Distinct addresses in the loaded index.",
	})
	IndexASNs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blag_index_asns", Help: "Distinct ASNs in the loaded index.",
	})
	IndexLoadedAt = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blag_index_loaded_timestamp_seconds", Help: "Unix time the current index was loaded.",
	})

	Reloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blag_reloads_total", Help: "Dataset reload attempts by outcome.",
	}, []string{"result"})
	Fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blag_fetches_total", Help: "Dataset download attempts by outcome.",
	}, []string{"result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blag_http_requests_total", Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	DNSQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blag_dnsbl_queries_total", Help: "DNSBL queries by type and outcome.",
	}, []string{"qtype", "result"})
)

// ObserveLookup counts one lookup of kind as a hit or a miss.
func ObserveLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	Lookups.WithLabelValues(kind, result).Inc()
}
