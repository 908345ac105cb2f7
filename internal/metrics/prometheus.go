package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle results.
const (
	ResultPublished = "published"
	ResultFailed    = "failed"
)

// Recorder exposes the bot's cycle metrics using Prometheus.
type Recorder struct {
	cycles           *prometheus.CounterVec
	publishErrors    *prometheus.CounterVec
	lastConfidence   prometheus.Gauge
	lastPrice        prometheus.Gauge
	fetchLatency     prometheus.Histogram
	lastSuccessEpoch prometheus.Gauge
}

// New registers the recorder's collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		cycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cbbi_bot_cycles_total",
				Help: "Total number of status cycles by result",
			},
			[]string{"result"},
		),
		publishErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cbbi_bot_publish_errors_total",
				Help: "Total number of failed display updates by surface",
			},
			[]string{"surface"},
		),
		lastConfidence: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cbbi_bot_last_confidence",
			Help: "Last published confidence value (0-1)",
		}),
		lastPrice: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cbbi_bot_last_price_usd",
			Help: "Last published BTC price",
		}),
		fetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cbbi_bot_fetch_duration_seconds",
			Help:    "Duration of upstream fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		lastSuccessEpoch: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cbbi_bot_last_success_timestamp_seconds",
			Help: "Unix time of the last published cycle",
		}),
	}
}

func (r *Recorder) RecordCycle(result string) {
	r.cycles.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordPublishError(surface string) {
	r.publishErrors.WithLabelValues(surface).Inc()
}

// RecordLatest records the raw values behind the last published status.
func (r *Recorder) RecordLatest(confidence, price float64, unixSeconds int64) {
	r.lastConfidence.Set(confidence)
	r.lastPrice.Set(price)
	r.lastSuccessEpoch.Set(float64(unixSeconds))
}

func (r *Recorder) RecordFetchLatency(seconds float64) {
	r.fetchLatency.Observe(seconds)
}
