package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once                  sync.Once
	stageDuration         *prom.HistogramVec
	buildDuration         prom.Histogram
	stageResults          *prom.CounterVec
	buildOutcome          *prom.CounterVec
	conversionDuration    *prom.HistogramVec
	conversionResults     *prom.CounterVec
	conversionConcurrency prom.Gauge
	publishedBytes        *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.conversionDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Duration of individual page conversions",
			Buckets:   prom.DefBuckets,
		}, []string{"page", "result"})
		pr.conversionResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_results_total",
			Help:      "Page conversion results by success/failure",
		}, []string{"result"})
		pr.conversionConcurrency = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "conversion_concurrency",
			Help:      "Configured conversion worker limit for the last build",
		})
		pr.publishedBytes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "published_bytes_total",
			Help:      "Bytes written to the deployment directory by artifact kind",
		}, []string{"kind"})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
			pr.conversionDuration, pr.conversionResults, pr.conversionConcurrency, pr.publishedBytes)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveConversionDuration(page string, d time.Duration, success bool) {
	if p == nil || p.conversionDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.conversionDuration.WithLabelValues(page, res).Observe(d.Seconds())
	p.conversionResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) SetConversionConcurrency(n int) {
	if p == nil || p.conversionConcurrency == nil {
		return
	}
	p.conversionConcurrency.Set(float64(n))
}

func (p *PrometheusRecorder) AddPublishedBytes(kind ArtifactKind, n int) {
	if p == nil || p.publishedBytes == nil {
		return
	}
	p.publishedBytes.WithLabelValues(string(kind)).Add(float64(n))
}
