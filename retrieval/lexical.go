package retrieval

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/lingorag/lingorag/types"
)

// BM25Config BM25 参数。
type BM25Config struct {
	K1 float64 `yaml:"k1" json:"k1"` // 词频饱和参数 (1.2-2.0)
	B  float64 `yaml:"b" json:"b"`   // 文档长度归一化参数 (0.75)
}

// DefaultBM25Config 返回默认 BM25 参数。
func DefaultBM25Config() BM25Config {
	return BM25Config{K1: 1.5, B: 0.75}
}

// BM25Index 内存词法索引，为 hybrid 策略提供关键词匹配信号。
type BM25Index struct {
	config BM25Config

	mu        sync.RWMutex
	passages  []types.Passage
	docTerms  []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
}

// NewBM25Index 创建空索引。
func NewBM25Index(config BM25Config) *BM25Index {
	return &BM25Index{
		config: config,
		idf:    make(map[string]float64),
	}
}

// Len 返回已索引的片段数。
func (idx *BM25Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.passages)
}

// Index 重建整个索引并计算 BM25 统计量。
func (idx *BM25Index) Index(passages []types.Passage) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.passages = passages
	idx.docTerms = make([]map[string]int, len(passages))
	idx.docLens = make([]int, len(passages))
	idx.idf = make(map[string]float64)

	totalLen := 0
	termDocCount := make(map[string]int)

	for i, p := range passages {
		terms := tokenize(p.Content)
		freq := make(map[string]int, len(terms))
		for _, term := range terms {
			freq[term]++
		}
		idx.docTerms[i] = freq
		idx.docLens[i] = len(terms)
		totalLen += len(terms)

		for term := range freq {
			termDocCount[term]++
		}
	}

	if len(passages) > 0 {
		idx.avgDocLen = float64(totalLen) / float64(len(passages))
	}

	n := float64(len(passages))
	for term, df := range termDocCount {
		idx.idf[term] = math.Log((n-float64(df)+0.5)/(float64(df)+0.5) + 1.0)
	}
}

// Search 返回按 BM25 分数降序的前 topK 个片段，零分文档不返回。
func (idx *BM25Index) Search(query string, topK int) []types.ScoredPassage {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || len(idx.passages) == 0 {
		return nil
	}

	results := make([]types.ScoredPassage, 0, topK)
	for i := range idx.passages {
		score := idx.score(queryTerms, i)
		if score <= 0 {
			continue
		}
		results = append(results, types.ScoredPassage{
			Passage: idx.passages[i],
			Score:   score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

func (idx *BM25Index) score(queryTerms []string, doc int) float64 {
	score := 0.0
	docLen := float64(idx.docLens[doc])
	for _, term := range queryTerms {
		tf, ok := idx.docTerms[doc][term]
		if !ok {
			continue
		}
		idf := idx.idf[term]
		numerator := float64(tf) * (idx.config.K1 + 1.0)
		denominator := float64(tf) + idx.config.K1*(1.0-idx.config.B+idx.config.B*(docLen/idx.avgDocLen))
		score += idf * (numerator / denominator)
	}
	return score
}

// tokenize 小写化后按非字母数字切分，CJK 字符逐字成词，适配中英混合
// 查询。
func tokenize(text string) []string {
	text = strings.ToLower(text)
	terms := make([]string, 0, len(text)/4)
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			terms = append(terms, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			terms = append(terms, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return terms
}
