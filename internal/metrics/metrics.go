package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	downloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vectorcheck",
			Name:      "downloads_total",
			Help:      "Total PDF downloads by result (success, failed, timeout, too_large, cooldown, cancelled)",
		},
		[]string{"result"},
	)

	downloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vectorcheck",
			Name:      "download_duration_seconds",
			Help:      "Duration of PDF downloads",
			Buckets:   prometheus.DefBuckets,
		},
	)

	downloadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vectorcheck",
			Name:      "download_bytes_total",
			Help:      "Total bytes downloaded",
		},
	)

	pagesClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vectorcheck",
			Name:      "pages_classified_total",
			Help:      "Pages classified by verdict (vector, text, failed)",
		},
		[]string{"verdict"},
	)

	documentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vectorcheck",
			Name:      "documents_processed_total",
			Help:      "Documents processed by result (success, invalid_input, fetch_error, parse_error, internal_error)",
		},
		[]string{"result"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vectorcheck",
			Name:      "request_duration_seconds",
			Help:      "Duration of vector-check requests by outcome",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	breakerEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vectorcheck",
			Name:      "breaker_events_total",
			Help:      "Download circuit breaker events by host",
		},
		[]string{"host"},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(downloadsTotal, downloadDuration, downloadBytes,
		pagesClassified, documentsTotal, requestDuration, breakerEvents)
}

// Handler returns the http.Handler for /metrics.
func Handler() http.Handler { return promhttp.Handler() }

func ObserveDownload(result string, dur time.Duration) {
	downloadsTotal.WithLabelValues(result).Inc()
	if dur > 0 {
		downloadDuration.Observe(dur.Seconds())
	}
}

func AddDownloadBytes(n int64) { downloadBytes.Add(float64(n)) }

func IncPageClassified(verdict string) { pagesClassified.WithLabelValues(verdict).Inc() }

func ObserveRequest(result string, dur time.Duration) {
	documentsTotal.WithLabelValues(result).Inc()
	requestDuration.WithLabelValues(result).Observe(dur.Seconds())
}

func BreakerOpened(host string) { breakerEvents.WithLabelValues(host).Inc() }
