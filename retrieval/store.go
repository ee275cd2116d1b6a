package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lingorag/lingorag/types"
)

// LexicalStore 用 BM25 词法匹配实现 PassageStore，不依赖外部向量服务。
// 适合没有嵌入模型时的单机部署；有向量索引时应换用真正的向量实现。
type LexicalStore struct {
	index *BM25Index
}

// NewLexicalStore 用给定片段构建词法存储。
func NewLexicalStore(passages []types.Passage, config BM25Config) *LexicalStore {
	idx := NewBM25Index(config)
	idx.Index(passages)
	return &LexicalStore{index: idx}
}

// LoadLexicalStore 从 JSON 知识库文件（[]Passage）加载词法存储。
func LoadLexicalStore(path string, config BM25Config) (*LexicalStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	var passages []types.Passage
	if err := json.Unmarshal(data, &passages); err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	for i := range passages {
		if passages[i].Metadata.SourceType == "" {
			passages[i].Metadata.SourceType = types.SourceLocal
		}
		if passages[i].Metadata.RetrievalMethod == "" {
			passages[i].Metadata.RetrievalMethod = "lexical_search"
		}
	}
	return NewLexicalStore(passages, config), nil
}

// Query 实现 PassageStore：先取 fetchK 个候选，再截断到 k。
func (s *LexicalStore) Query(_ context.Context, query string, k, fetchK int) ([]types.ScoredPassage, error) {
	if fetchK < k {
		fetchK = k
	}
	results := s.index.Search(query, fetchK)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Passages 返回索引中的全部片段，用于构建 hybrid 词法索引。
func (s *LexicalStore) Passages() []types.Passage {
	s.index.mu.RLock()
	defer s.index.mu.RUnlock()
	out := make([]types.Passage, len(s.index.passages))
	copy(out, s.index.passages)
	return out
}
