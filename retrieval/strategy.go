package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lingorag/lingorag/types"
)

// Strategy 检索策略。
type Strategy int

const (
	// StrategySimilarity 向量相似度 Top-K 检索。
	StrategySimilarity Strategy = iota
	// StrategyDiversity MMR 多样性检索。
	StrategyDiversity
	// StrategyHybrid 向量 + BM25 词法融合检索。
	StrategyHybrid
	// StrategyEnhanced 相似度优先、不足时以多样性补充的增强检索。
	StrategyEnhanced
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategySimilarity:
		return "similarity"
	case StrategyDiversity:
		return "diversity"
	case StrategyHybrid:
		return "hybrid"
	case StrategyEnhanced:
		return "enhanced"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy 解析策略名称。
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "similarity", "vector":
		return StrategySimilarity, nil
	case "diversity", "mmr":
		return StrategyDiversity, nil
	case "hybrid", "ensemble":
		return StrategyHybrid, nil
	case "enhanced":
		return StrategyEnhanced, nil
	default:
		return 0, fmt.Errorf("unknown retrieval strategy: %q", name)
	}
}

// PassageStore 本地向量索引的查询接口。实现（嵌入、最近邻查找）在本
// 模块之外。
type PassageStore interface {
	// Query 返回与 query 最相关的 k 个片段，内部先取 fetchK 个候选。
	Query(ctx context.Context, query string, k, fetchK int) ([]types.ScoredPassage, error)
}

// SelectorConfig 策略选择器配置。
type SelectorConfig struct {
	// TopK 相似度检索返回数量。
	TopK int `yaml:"top_k" json:"top_k"`
	// FetchK 相似度检索的候选超取数量。
	FetchK int `yaml:"fetch_k" json:"fetch_k"`
	// DiversityK 多样性检索返回数量。
	DiversityK int `yaml:"diversity_k" json:"diversity_k"`
	// DiversityFetchK 多样性检索的候选数量。
	DiversityFetchK int `yaml:"diversity_fetch_k" json:"diversity_fetch_k"`
	// DiversityLambda 相关性与新颖性的权衡（0-1，越大越偏相关性）。
	DiversityLambda float64 `yaml:"diversity_lambda" json:"diversity_lambda"`
	// EnhancedMinResults 相似度结果低于该值时触发多样性补充。
	EnhancedMinResults int `yaml:"enhanced_min_results" json:"enhanced_min_results"`
	// EnhancedCap 增强检索返回上限。
	EnhancedCap int `yaml:"enhanced_cap" json:"enhanced_cap"`
	// HybridLexicalWeight BM25 分数权重，向量权重为 1-该值。
	HybridLexicalWeight float64 `yaml:"hybrid_lexical_weight" json:"hybrid_lexical_weight"`
}

// DefaultSelectorConfig 返回默认检索参数。
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		TopK:                5,
		FetchK:              10,
		DiversityK:          4,
		DiversityFetchK:     20,
		DiversityLambda:     0.5,
		EnhancedMinResults:  3,
		EnhancedCap:         5,
		HybridLexicalWeight: 0.5,
	}
}

// Selector 按策略从本地索引检索片段。
type Selector struct {
	store   PassageStore
	lexical *BM25Index
	config  SelectorConfig
	logger  *zap.Logger
}

// NewSelector 创建策略选择器。lexical 可为 nil，此时 hybrid 策略退化为
// 纯向量检索。
func NewSelector(store PassageStore, lexical *BM25Index, config SelectorConfig, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		store:   store,
		lexical: lexical,
		config:  config,
		logger:  logger,
	}
}

// Retrieve 按给定策略检索片段。本地索引不可用时返回
// RETRIEVAL_UNAVAILABLE，不做重试。
func (s *Selector) Retrieve(ctx context.Context, query string, strategy Strategy) ([]types.Passage, error) {
	if s.store == nil {
		return nil, types.NewError(types.ErrRetrievalUnavailable, "passage store not configured")
	}

	var (
		passages []types.Passage
		err      error
	)

	switch strategy {
	case StrategySimilarity:
		passages, err = s.similarity(ctx, query)
	case StrategyDiversity:
		passages, err = s.diversity(ctx, query)
	case StrategyHybrid:
		passages, err = s.hybrid(ctx, query)
	case StrategyEnhanced:
		passages, err = s.enhanced(ctx, query)
	default:
		return nil, fmt.Errorf("unknown retrieval strategy: %v", strategy)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("retrieval completed",
		zap.String("strategy", strategy.String()),
		zap.Int("results", len(passages)))
	return passages, nil
}

// similarity 向量相似度 Top-K。超取 fetchK 个候选后截断，为下游的
// 多样性/过滤步骤保留余量。
func (s *Selector) similarity(ctx context.Context, query string) ([]types.Passage, error) {
	scored, err := s.query(ctx, query, s.config.TopK, s.config.FetchK)
	if err != nil {
		return nil, err
	}
	if len(scored) > s.config.TopK {
		scored = scored[:s.config.TopK]
	}
	return toPassages(scored), nil
}

// diversity MMR 多样性选择：从超取的候选中迭代挑选
// lambda*相关性 - (1-lambda)*与已选集合的最大冗余 最高的片段。
func (s *Selector) diversity(ctx context.Context, query string) ([]types.Passage, error) {
	candidates, err := s.query(ctx, query, s.config.DiversityFetchK, s.config.DiversityFetchK)
	if err != nil {
		return nil, err
	}
	selected := mmrSelect(candidates, s.config.DiversityK, s.config.DiversityLambda)
	return toPassages(selected), nil
}

// hybrid 向量 + BM25 融合检索。两路分数各自做 min-max 归一化后按权重
// 合并，相同片段以去重键对齐。词法索引为空时退化为纯向量检索。
func (s *Selector) hybrid(ctx context.Context, query string) ([]types.Passage, error) {
	if s.lexical == nil || s.lexical.Len() == 0 {
		s.logger.Warn("lexical index empty, hybrid falls back to vector-only retrieval")
		return s.similarity(ctx, query)
	}

	vector, err := s.query(ctx, query, s.config.FetchK, s.config.FetchK)
	if err != nil {
		return nil, err
	}

	lexical := s.lexical.Search(query, s.config.FetchK)

	vectorScores := make(map[string]float64, len(vector))
	byKey := make(map[string]types.Passage, len(vector)+len(lexical))
	for _, sp := range vector {
		key := sp.Passage.DedupKey()
		vectorScores[key] = sp.Score
		byKey[key] = sp.Passage
	}
	lexicalScores := make(map[string]float64, len(lexical))
	for _, sp := range lexical {
		key := sp.Passage.DedupKey()
		lexicalScores[key] = sp.Score
		if _, ok := byKey[key]; !ok {
			byKey[key] = sp.Passage
		}
	}

	vectorNorm := normalizeScores(vectorScores)
	lexicalNorm := normalizeScores(lexicalScores)

	lw := s.config.HybridLexicalWeight
	merged := make([]types.ScoredPassage, 0, len(byKey))
	for key, p := range byKey {
		score := lexicalNorm[key]*lw + vectorNorm[key]*(1-lw)
		merged = append(merged, types.ScoredPassage{Passage: p, Score: score})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > s.config.TopK {
		merged = merged[:s.config.TopK]
	}
	return toPassages(merged), nil
}

// enhanced 先做相似度检索；结果不足时用多样性结果补充，按内容前缀
// 去重后截断到上限。
func (s *Selector) enhanced(ctx context.Context, query string) ([]types.Passage, error) {
	passages, err := s.similarity(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(passages) < s.config.EnhancedMinResults {
		supplement, err := s.diversity(ctx, query)
		if err != nil {
			// 补充失败不影响已有的相似度结果。
			s.logger.Warn("diversity supplement failed", zap.Error(err))
		} else {
			present := make(map[string]bool, len(passages))
			for _, p := range passages {
				present[p.DedupKey()] = true
			}
			for _, p := range supplement {
				if !present[p.DedupKey()] {
					passages = append(passages, p)
				}
			}
		}
	}

	seen := make(map[string]bool, len(passages))
	unique := make([]types.Passage, 0, len(passages))
	for _, p := range passages {
		key := p.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, p)
		if len(unique) >= s.config.EnhancedCap {
			break
		}
	}
	return unique, nil
}

func (s *Selector) query(ctx context.Context, query string, k, fetchK int) ([]types.ScoredPassage, error) {
	scored, err := s.store.Query(ctx, query, k, fetchK)
	if err != nil {
		return nil, types.NewError(types.ErrRetrievalUnavailable, "passage store query failed").WithCause(err)
	}
	return scored, nil
}

// mmrSelect 从候选中选出 k 个片段，交替权衡相关性与新颖性。冗余度用
// 候选与已选片段的词项重叠（Jaccard）估算。
func mmrSelect(candidates []types.ScoredPassage, k int, lambda float64) []types.ScoredPassage {
	if len(candidates) <= k {
		return candidates
	}

	terms := make([]map[string]bool, len(candidates))
	for i, c := range candidates {
		terms[i] = termSet(c.Passage.Content)
	}

	relevance := normalizeScoreSlice(candidates)

	selected := make([]types.ScoredPassage, 0, k)
	selectedTerms := make([]map[string]bool, 0, k)
	used := make([]bool, len(candidates))

	for len(selected) < k {
		best := -1
		bestScore := 0.0
		for i := range candidates {
			if used[i] {
				continue
			}
			redundancy := 0.0
			for _, st := range selectedTerms {
				if j := jaccard(terms[i], st); j > redundancy {
					redundancy = j
				}
			}
			score := lambda*relevance[i] - (1-lambda)*redundancy
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		selected = append(selected, candidates[best])
		selectedTerms = append(selectedTerms, terms[best])
	}
	return selected
}

func termSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, term := range tokenize(text) {
		set[term] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for term := range a {
		if b[term] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// normalizeScores Min-Max 归一化；分数全部相同时归一化为 1。
func normalizeScores(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return scores
	}
	minScore, maxScore := 0.0, 0.0
	first := true
	for _, score := range scores {
		if first {
			minScore, maxScore = score, score
			first = false
			continue
		}
		if score < minScore {
			minScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}

	normalized := make(map[string]float64, len(scores))
	scoreRange := maxScore - minScore
	for id, score := range scores {
		if scoreRange == 0 {
			normalized[id] = 1.0
		} else {
			normalized[id] = (score - minScore) / scoreRange
		}
	}
	return normalized
}

func normalizeScoreSlice(scored []types.ScoredPassage) []float64 {
	out := make([]float64, len(scored))
	if len(scored) == 0 {
		return out
	}
	minScore, maxScore := scored[0].Score, scored[0].Score
	for _, sp := range scored {
		if sp.Score < minScore {
			minScore = sp.Score
		}
		if sp.Score > maxScore {
			maxScore = sp.Score
		}
	}
	scoreRange := maxScore - minScore
	for i, sp := range scored {
		if scoreRange == 0 {
			out[i] = 1.0
		} else {
			out[i] = (sp.Score - minScore) / scoreRange
		}
	}
	return out
}

func toPassages(scored []types.ScoredPassage) []types.Passage {
	out := make([]types.Passage, len(scored))
	for i, sp := range scored {
		out[i] = sp.Passage
	}
	return out
}
