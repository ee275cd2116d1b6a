package assistant

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lingorag/lingorag/internal/metrics"
	"github.com/lingorag/lingorag/memory"
	"github.com/lingorag/lingorag/retrieval"
	"github.com/lingorag/lingorag/types"
	"github.com/lingorag/lingorag/websearch"
)

// Generator 文本生成接口。实现（具体的语言模型调用）在本模块之外。
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SearchMode 单次请求的检索来源选择。
type SearchMode int

const (
	// ModeHybrid 本地 + 网络混合检索。
	ModeHybrid SearchMode = iota
	// ModeLocalOnly 仅本地检索。
	ModeLocalOnly
	// ModeWebOnly 仅网络检索。
	ModeWebOnly
)

// String returns the mode name.
func (m SearchMode) String() string {
	switch m {
	case ModeHybrid:
		return "hybrid"
	case ModeLocalOnly:
		return "local_only"
	case ModeWebOnly:
		return "web_only"
	default:
		return "unknown"
	}
}

// ParseSearchMode 解析检索模式名称。未知名称返回 hybrid。
func ParseSearchMode(name string) SearchMode {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "local_only", "local":
		return ModeLocalOnly
	case "web_only", "web":
		return ModeWebOnly
	default:
		return ModeHybrid
	}
}

// Options 单次对话的选项。
type Options struct {
	// Mode 检索来源模式。
	Mode SearchMode
	// Strategy 本地检索策略。
	Strategy retrieval.Strategy
	// UseMemory 是否使用并记录对话历史。
	UseMemory bool
}

// DefaultOptions 返回默认选项：混合检索 + 增强策略 + 启用记忆。
func DefaultOptions() Options {
	return Options{
		Mode:      ModeHybrid,
		Strategy:  retrieval.StrategyEnhanced,
		UseMemory: true,
	}
}

// Metadata 一次对话的过程数据，随回答一起返回给上层。
type Metadata struct {
	Quality            types.QualityReport   `json:"retrieval_quality"`
	ResponseTime       time.Duration         `json:"response_time"`
	NumRetrievedDocs   int                   `json:"num_retrieved_docs"`
	Breakdown          types.SourceBreakdown `json:"docs_breakdown"`
	SearchMode         string                `json:"search_method"`
	MemoryEnabled      bool                  `json:"memory_enabled"`
	ConversationLength int                   `json:"conversation_length"`
	PromptTokens       int                   `json:"prompt_tokens,omitempty"`
}

// Reply 一次对话的结果。
type Reply struct {
	Answer string   `json:"answer"`
	Meta   Metadata `json:"metadata"`
}

// 用户可见的固定文案。
const (
	emptyQueryMessage = "请输入问题"

	noDocsMessage = "❌ 抱歉，没有找到相关的学习资料。\n\n" +
		"💡 **建议：**\n" +
		"1. 尝试使用不同的关键词\n" +
		"2. 检查网络连接状态\n" +
		"3. 确保问题与英语学习相关\n" +
		"4. 尝试更具体的问题描述"
)

// Assistant 问答流水线：记忆上下文、本地/网络检索、质量分析和生成的
// 编排者。记忆实例由构造方传入并显式持有，不存在全局单例。
type Assistant struct {
	selector *retrieval.Selector
	web      *websearch.Adapter
	memory   *memory.Manager
	gen      Generator
	tokens   TokenCounter
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// New 创建助手。web、tokens、collector 均可为 nil；selector 为 nil 时
// 本地检索视为不可用。
func New(
	selector *retrieval.Selector,
	web *websearch.Adapter,
	mem *memory.Manager,
	gen Generator,
	tokens TokenCounter,
	collector *metrics.Collector,
	logger *zap.Logger,
) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		selector: selector,
		web:      web,
		memory:   mem,
		gen:      gen,
		tokens:   tokens,
		metrics:  collector,
		logger:   logger,
	}
}

// Chat 处理一次用户查询，返回回答和过程元数据。
//
// 空白查询立即拒绝；本地索引不可用在混合模式下降级为纯网络检索，在仅
// 本地模式下作为硬失败返回；生成失败直接中止并携带底层错误。可选阶段
// （单个搜索引擎、记忆持久化）的失败从不影响主回答路径。
func (a *Assistant) Chat(ctx context.Context, query string, opts Options) (*Reply, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		a.metrics.ChatRequest("empty_query", time.Since(start))
		return nil, types.NewError(types.ErrEmptyQuery, emptyQueryMessage)
	}

	useLocal := opts.Mode != ModeWebOnly
	useWeb := opts.Mode != ModeLocalOnly && a.web != nil

	// 本地检索、网络搜索和记忆上下文互不依赖，可并行；合并是汇合点。
	var (
		localDocs []types.Passage
		webDocs   []types.Passage
		convCtx   string
		localErr  error
	)
	g, gctx := errgroup.WithContext(ctx)
	if useLocal {
		g.Go(func() error {
			if a.selector == nil {
				localErr = types.NewError(types.ErrRetrievalUnavailable, "passage store not configured")
				return nil
			}
			localDocs, localErr = a.selector.Retrieve(gctx, query, opts.Strategy)
			return nil
		})
	}
	if useWeb {
		g.Go(func() error {
			webDocs = a.web.Search(gctx, query)
			return nil
		})
	}
	if opts.UseMemory && a.memory != nil {
		g.Go(func() error {
			convCtx = a.memory.ContextForQuery(query, 0)
			return nil
		})
	}
	// 子任务自行降级，errgroup 只用于汇合。
	_ = g.Wait()

	if localErr != nil {
		if !useWeb {
			// 本地是唯一来源，索引不可用是硬失败。
			a.metrics.ChatRequest("retrieval_unavailable", time.Since(start))
			return nil, localErr
		}
		a.logger.Warn("local retrieval failed, continuing with web results only", zap.Error(localErr))
		localDocs = nil
	}

	a.metrics.RetrievalResults(string(types.SourceLocal), len(localDocs))
	a.metrics.RetrievalResults(string(types.SourceWeb), len(webDocs))

	merged := retrieval.Merge(localDocs, webDocs)
	report := retrieval.AnalyzeCombined(query, merged, useLocal, useWeb)

	meta := Metadata{
		Quality:          report,
		NumRetrievedDocs: len(merged),
		Breakdown:        report.Breakdown,
		SearchMode:       opts.Mode.String(),
		MemoryEnabled:    opts.UseMemory && a.memory != nil,
	}
	if a.memory != nil {
		meta.ConversationLength = a.memory.Len()
	}

	if len(merged) == 0 {
		meta.ResponseTime = time.Since(start)
		a.metrics.ChatRequest("no_results", meta.ResponseTime)
		return &Reply{Answer: noDocsMessage, Meta: meta}, nil
	}

	prompt := buildPrompt(query, convCtx, merged)
	if a.tokens != nil {
		meta.PromptTokens = a.tokens.Count(prompt)
		a.logger.Debug("prompt assembled",
			zap.Int("tokens", meta.PromptTokens),
			zap.Int("docs", len(merged)))
	}

	answer, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		a.metrics.ChatRequest("generation_error", time.Since(start))
		return nil, types.NewError(types.ErrGenerationFailure, "answer generation failed").WithCause(err)
	}

	meta.ResponseTime = time.Since(start)

	if opts.UseMemory && a.memory != nil {
		docIDs := make([]string, 0, len(merged))
		for _, p := range merged {
			docIDs = append(docIDs, p.Metadata.SourceID)
		}
		a.memory.AddTurn(query, answer, map[string]any{
			"response_time":     meta.ResponseTime.Seconds(),
			"retrieval_quality": report.QualityScore,
			"num_docs":          len(merged),
		}, docIDs)
		meta.ConversationLength = a.memory.Len()
	}

	a.metrics.ChatRequest("ok", meta.ResponseTime)
	return &Reply{Answer: appendQualityInfo(answer, report), Meta: meta}, nil
}
