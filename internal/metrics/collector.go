// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 流水线指标收集器。nil Collector 的所有方法都是空操作，
// 方便测试中省略指标。
type Collector struct {
	chatRequestsTotal *prometheus.CounterVec
	chatDuration      prometheus.Histogram

	retrievalResultsTotal *prometheus.CounterVec
	engineFailuresTotal   *prometheus.CounterVec

	memoryTurnsTotal prometheus.Counter
}

// NewCollector 创建指标收集器并注册到给定 registry。registry 为 nil
// 时使用默认 registry。
func NewCollector(namespace string, registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Collector{
		chatRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chat_requests_total",
				Help:      "Total number of chat requests by status.",
			},
			[]string{"status"},
		),
		chatDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "chat_request_duration_seconds",
				Help:      "Chat request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		retrievalResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retrieval_results_total",
				Help:      "Total number of retrieved passages by source.",
			},
			[]string{"source"},
		),
		engineFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "web_engine_failures_total",
				Help:      "Total number of web search engine failures.",
			},
			[]string{"engine"},
		),
		memoryTurnsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "memory_turns_total",
				Help:      "Total number of conversation turns recorded.",
			},
		),
	}
}

// ChatRequest 记录一次对话请求及其耗时。
func (c *Collector) ChatRequest(status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.chatRequestsTotal.WithLabelValues(status).Inc()
	c.chatDuration.Observe(duration.Seconds())
}

// RetrievalResults 记录某来源检索到的片段数。
func (c *Collector) RetrievalResults(source string, count int) {
	if c == nil {
		return
	}
	c.retrievalResultsTotal.WithLabelValues(source).Add(float64(count))
}

// EngineFailure 记录一次搜索引擎失败。
func (c *Collector) EngineFailure(engine string) {
	if c == nil {
		return
	}
	c.engineFailuresTotal.WithLabelValues(engine).Inc()
}

// MemoryTurn 记录一条新的对话轮次。
func (c *Collector) MemoryTurn() {
	if c == nil {
		return
	}
	c.memoryTurnsTotal.Inc()
}
