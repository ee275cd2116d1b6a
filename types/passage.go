package types

// SourceType 标识一个片段的来源。
type SourceType string

const (
	// SourceLocal 本地知识库片段。
	SourceLocal SourceType = "local"
	// SourceWeb 网络搜索片段。
	SourceWeb SourceType = "web"
)

// PassageMetadata 片段的来源元数据。
type PassageMetadata struct {
	// SourceID 来源标识（本地为文档路径/ID，网络为 URL）。
	SourceID string `json:"source_id"`
	// SourceType 来源类型（local / web）。
	SourceType SourceType `json:"source_type"`
	// Title 可选标题。
	Title string `json:"title,omitempty"`
	// Engine 产生该片段的搜索引擎名（仅网络片段）。
	Engine string `json:"engine,omitempty"`
	// RetrievalMethod 检索方式（如 vector_search）。
	RetrievalMethod string `json:"retrieval_method,omitempty"`
}

// Passage 一条检索到的文本片段。检索调用产生后不再修改。
type Passage struct {
	Content  string          `json:"content"`
	Metadata PassageMetadata `json:"metadata"`
}

// dedupPrefixLen 去重键取内容前 100 个字符。
const dedupPrefixLen = 100

// DedupKey 返回片段的去重键：内容的前 100 个字符，原样取值，
// 不做大小写或空白归一化。
func (p Passage) DedupKey() string {
	return ContentKey(p.Content)
}

// ContentKey 返回文本前 100 个字符作为去重键。
func ContentKey(content string) string {
	runes := []rune(content)
	if len(runes) <= dedupPrefixLen {
		return content
	}
	return string(runes[:dedupPrefixLen])
}

// ScoredPassage 带相关性分数的片段。只做过滤和重排，不做修改。
type ScoredPassage struct {
	Passage Passage `json:"passage"`
	Score   float64 `json:"score"`
}

// SourceBreakdown 按来源统计的片段数量。
type SourceBreakdown struct {
	NumLocal int `json:"num_local"`
	NumWeb   int `json:"num_web"`
}

// QualityReport 一次检索结果集的质量报告。每次调用重新计算，不缓存。
type QualityReport struct {
	Query            string          `json:"query"`
	NumResults       int             `json:"num_results"`
	AvgContentLength float64         `json:"avg_content_length"`
	// QualityScore 0-100 的启发式质量评分。
	QualityScore    float64         `json:"quality_score"`
	Recommendations []string        `json:"recommendations"`
	Breakdown       SourceBreakdown `json:"breakdown"`
}
