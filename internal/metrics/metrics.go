package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
)

const namespace = "moda"

// Recorder はレンダリングの結果と再試行回数を記録します。
type Recorder struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New は専用のレジストリを持つ Recorder を生成します。
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_outcomes_total",
			Help:      "The total number of renders by tool and result category.",
		}, []string{"tool", "result"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_retries_total",
			Help:      "The total number of rate-limit retries.",
		}, []string{"tool"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Wall-clock time of one render including backoff waits.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"tool"}),
	}
	r.registry.MustRegister(
		r.outcomes, r.retries, r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveOutcome は1回のレンダリング結果を記録します。
func (r *Recorder) ObserveOutcome(tool string, outcome domain.Outcome, elapsed time.Duration) {
	result := "SUCCESS"
	if f, ok := outcome.(*domain.Failure); ok {
		result = string(f.Category)
	}
	r.outcomes.WithLabelValues(tool, result).Inc()
	r.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveRetry は再試行待ちに入ったことを記録します。
func (r *Recorder) ObserveRetry(tool string) {
	r.retries.WithLabelValues(tool).Inc()
}

// ProgressFunc は再試行を記録しつつ next に転送する generator.ProgressFunc を返します。
func (r *Recorder) ProgressFunc(tool string, next generator.ProgressFunc) generator.ProgressFunc {
	return func(p generator.Progress) {
		r.ObserveRetry(tool)
		if next != nil {
			next(p)
		}
	}
}

// Handler は /metrics 用のハンドラーを返します。
func (r *Recorder) Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(r.registry, promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
