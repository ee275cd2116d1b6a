// 检索质量分析测试。
package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingorag/lingorag/types"
)

func localPassage(content string) types.Passage {
	return types.Passage{
		Content:  content,
		Metadata: types.PassageMetadata{SourceType: types.SourceLocal},
	}
}

func webPassage(content string) types.Passage {
	return types.Passage{
		Content:  content,
		Metadata: types.PassageMetadata{SourceType: types.SourceWeb},
	}
}

func TestAnalyze_Empty(t *testing.T) {
	report := Analyze("现在完成时", nil)

	assert.Equal(t, 0, report.NumResults)
	assert.Equal(t, 0.0, report.QualityScore)
	assert.Equal(t, []string{recNoDocuments}, report.Recommendations)
}

func TestAnalyze_FullScoreWithoutDiversity(t *testing.T) {
	// 5 篇且平均长度 ≥1500 字符：数量分 50 + 长度分 30，无建议。
	long := strings.Repeat("长", 1500)
	passages := []types.Passage{
		localPassage(long), localPassage(long), localPassage(long),
		localPassage(long), localPassage(long),
	}

	report := Analyze("时态", passages)

	assert.Equal(t, 5, report.NumResults)
	assert.Equal(t, 1500.0, report.AvgContentLength)
	assert.Equal(t, 80.0, report.QualityScore)
	assert.Empty(t, report.Recommendations)
}

func TestAnalyze_ShortAndFewResults(t *testing.T) {
	report := Analyze("冠词", []types.Passage{localPassage("短"), localPassage("文")})

	// 数量分 20 + 长度分 1/50
	assert.InDelta(t, 20.02, report.QualityScore, 0.001)
	assert.Equal(t, []string{recFewResults, recShortContent, recLowQuality}, report.Recommendations)
}

func TestAnalyze_AvgLengthIsRuneCounted(t *testing.T) {
	// 10 个汉字 = 10 字符，不按字节计
	report := Analyze("q", []types.Passage{localPassage("一二三四五六七八九十")})
	assert.Equal(t, 10.0, report.AvgContentLength)
}

func TestAnalyzeCombined_DiversityBonus(t *testing.T) {
	long := strings.Repeat("a", 1500)
	passages := []types.Passage{
		localPassage(long), localPassage(long), localPassage(long),
		webPassage(long), webPassage(long),
	}

	report := AnalyzeCombined("grammar", passages, true, true)

	require.Equal(t, 3, report.Breakdown.NumLocal)
	require.Equal(t, 2, report.Breakdown.NumWeb)
	// 50 + 30 + min(20, 3*5+2*5) = 100
	assert.Equal(t, 100.0, report.QualityScore)
	assert.Empty(t, report.Recommendations)
}

func TestAnalyzeCombined_MissingSourceRecommendations(t *testing.T) {
	long := strings.Repeat("a", 1500)
	passages := []types.Passage{
		webPassage(long), webPassage(long), webPassage(long),
	}

	report := AnalyzeCombined("grammar", passages, true, true)
	assert.Contains(t, report.Recommendations, recNoLocalDocs)
	assert.NotContains(t, report.Recommendations, recNoWebDocs)

	// 未请求本地来源时不给本地缺失建议
	report = AnalyzeCombined("grammar", passages, false, true)
	assert.NotContains(t, report.Recommendations, recNoLocalDocs)
}

func TestAnalyze_Deterministic(t *testing.T) {
	passages := []types.Passage{localPassage("some passage about tense"), webPassage("another one")}
	first := AnalyzeCombined("q", passages, true, true)
	second := AnalyzeCombined("q", passages, true, true)
	assert.Equal(t, first, second)
}

func TestAnalyze_ScoreCappedAt100(t *testing.T) {
	long := strings.Repeat("x", 5000)
	passages := make([]types.Passage, 8)
	for i := range passages {
		if i%2 == 0 {
			passages[i] = localPassage(long)
		} else {
			passages[i] = webPassage(long)
		}
	}
	report := AnalyzeCombined("q", passages, true, true)
	assert.Equal(t, 100.0, report.QualityScore)
}
