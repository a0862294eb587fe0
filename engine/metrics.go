package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/feedkit/core"
)

// Recorder 消费每次链路运行的指标快照。
// 编排层只负责产出指标结构；如何上报（Prometheus、日志、
// 丢弃）由注入的 Recorder 决定。
type Recorder interface {
	Observe(m core.PipelineMetrics)
	ObserveNotifications(m core.NotificationMetrics)
}

// NopRecorder 丢弃所有指标（默认）。
type NopRecorder struct{}

func (NopRecorder) Observe(core.PipelineMetrics) {}

func (NopRecorder) ObserveNotifications(core.NotificationMetrics) {}

// PromRecorder 把链路指标导出为 Prometheus 指标。
type PromRecorder struct {
	duration     prometheus.Histogram
	sourced      prometheus.Histogram
	ranked       prometheus.Histogram
	errorRate    prometheus.Gauge
	cacheHitRate prometheus.Gauge
	runs         prometheus.Counter

	notifyDuration  prometheus.Histogram
	notifyGenerated prometheus.Histogram
	notifyRuns      prometheus.Counter
}

// NewPromRecorder 创建并向 registerer 注册链路指标。
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	r := &PromRecorder{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "feedkit",
			Name:      "pipeline_duration_seconds",
			Help:      "Wall-clock duration of one pipeline run.",
			Buckets:   prometheus.DefBuckets,
		}),
		sourced: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "feedkit",
			Name:      "pipeline_sourced_candidates",
			Help:      "Candidates produced by the sourcing stage.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		ranked: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "feedkit",
			Name:      "pipeline_ranked_candidates",
			Help:      "Candidates surviving to the ranking stage.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		errorRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "feedkit",
			Name:      "pipeline_source_error_rate",
			Help:      "Failed origin ratio of the last run.",
		}),
		cacheHitRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "feedkit",
			Name:      "feature_cache_hit_rate",
			Help:      "User feature cache hit rate.",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedkit",
			Name:      "pipeline_runs_total",
			Help:      "Total pipeline runs.",
		}),
		notifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "feedkit",
			Name:      "notification_duration_seconds",
			Help:      "Wall-clock duration of one notification run.",
			Buckets:   prometheus.DefBuckets,
		}),
		notifyGenerated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "feedkit",
			Name:      "notification_generated",
			Help:      "Notifications produced by one run.",
			Buckets:   prometheus.LinearBuckets(0, 2, 11),
		}),
		notifyRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedkit",
			Name:      "notification_runs_total",
			Help:      "Total notification runs.",
		}),
	}

	for _, c := range []prometheus.Collector{
		r.duration, r.sourced, r.ranked, r.errorRate, r.cacheHitRate, r.runs,
		r.notifyDuration, r.notifyGenerated, r.notifyRuns,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *PromRecorder) Observe(m core.PipelineMetrics) {
	r.duration.Observe(m.Duration.Seconds())
	r.sourced.Observe(float64(m.SourcedCount))
	r.ranked.Observe(float64(m.RankedCount))
	r.errorRate.Set(m.ErrorRate)
	r.cacheHitRate.Set(m.CacheHitRate)
	r.runs.Inc()
}

func (r *PromRecorder) ObserveNotifications(m core.NotificationMetrics) {
	r.notifyDuration.Observe(m.Duration.Seconds())
	r.notifyGenerated.Observe(float64(m.GeneratedCount))
	r.notifyRuns.Inc()
}
