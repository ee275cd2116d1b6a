package websearch

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lingorag/lingorag/internal/metrics"
	"github.com/lingorag/lingorag/types"
)

// AdapterConfig 网络搜索适配器配置。
type AdapterConfig struct {
	// MaxResultsPerEngine 每个引擎最多返回的结果数。
	MaxResultsPerEngine int `yaml:"max_results_per_engine" json:"max_results_per_engine"`
	// EngineTimeout 单个引擎调用的超时。
	EngineTimeout time.Duration `yaml:"engine_timeout" json:"engine_timeout"`
	// PauseInterval 相邻引擎调用之间的礼貌间隔，避免高频请求外部服务。
	PauseInterval time.Duration `yaml:"pause_interval" json:"pause_interval"`
	// MinContentLength 低于该字符数的结果视为噪声丢弃。
	MinContentLength int `yaml:"min_content_length" json:"min_content_length"`
}

// DefaultAdapterConfig 返回默认适配器配置。
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		MaxResultsPerEngine: 2,
		EngineTimeout:       10 * time.Second,
		PauseInterval:       time.Second,
		MinContentLength:    50,
	}
}

// Adapter 将多个搜索引擎的结果转为带 web 来源标记的片段。单个引擎失
// 败只记日志并计入指标，永远不中断整批搜索。
type Adapter struct {
	engines []Engine
	config  AdapterConfig
	limiter *rate.Limiter
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewAdapter 创建适配器，引擎按注册顺序调用。
func NewAdapter(engines []Engine, config AdapterConfig, collector *metrics.Collector, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := config.PauseInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Adapter{
		engines: engines,
		config:  config,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		metrics: collector,
		logger:  logger,
	}
}

// Search 依次调用各引擎并把结果拼接为片段序列。查询先经过
// EnhanceQuery 改写；结果保持引擎注册顺序，不按分数重排。
func (a *Adapter) Search(ctx context.Context, query string) []types.Passage {
	enhanced := EnhanceQuery(query)
	if enhanced != query {
		a.logger.Debug("query enhanced for web search",
			zap.String("original", query),
			zap.String("enhanced", enhanced))
	}

	passages := make([]types.Passage, 0, len(a.engines)*a.config.MaxResultsPerEngine)
	for _, engine := range a.engines {
		// 引擎之间的礼貌间隔；第一次调用不等待。
		if err := a.limiter.Wait(ctx); err != nil {
			a.logger.Warn("web search cancelled", zap.Error(err))
			return passages
		}

		results := a.searchEngine(ctx, engine, enhanced)
		for _, r := range results {
			if utf8.RuneCountInString(r.Content) < a.config.MinContentLength {
				continue
			}
			passages = append(passages, types.Passage{
				Content: r.Content,
				Metadata: types.PassageMetadata{
					SourceID:        r.URL,
					SourceType:      types.SourceWeb,
					Title:           r.Title,
					Engine:          r.Source,
					RetrievalMethod: "web_search",
				},
			})
		}
	}

	a.logger.Info("web search completed",
		zap.String("query", enhanced),
		zap.Int("passages", len(passages)))
	return passages
}

// searchEngine 调用单个引擎。超时和错误都降级为空结果。
func (a *Adapter) searchEngine(ctx context.Context, engine Engine, query string) []Result {
	searchCtx, cancel := context.WithTimeout(ctx, a.config.EngineTimeout)
	defer cancel()

	results, err := engine.Search(searchCtx, query, a.config.MaxResultsPerEngine)
	if err != nil {
		failure := types.NewError(types.ErrEngineFailure, "web search engine failed").
			WithEngine(engine.Name()).
			WithCause(err)
		a.logger.Warn("web search engine failed",
			zap.String("engine", engine.Name()),
			zap.Error(failure))
		a.metrics.EngineFailure(engine.Name())
		return nil
	}
	return results
}
