// 提示词构建测试。
package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lingorag/lingorag/types"
)

func localDoc(content string) types.Passage {
	return types.Passage{
		Content:  content,
		Metadata: types.PassageMetadata{SourceType: types.SourceLocal},
	}
}

func webDoc(content, engine, title string) types.Passage {
	return types.Passage{
		Content: content,
		Metadata: types.PassageMetadata{
			SourceType: types.SourceWeb,
			Engine:     engine,
			Title:      title,
		},
	}
}

func TestFormatDocsForPrompt(t *testing.T) {
	docs := formatDocsForPrompt([]types.Passage{
		localDoc("现在完成时的构成是 have/has + 过去分词。"),
		webDoc("The present perfect links past and present.", "Wikipedia", "Present perfect"),
	})

	assert.Contains(t, docs, "[本地资料]:")
	assert.Contains(t, docs, "[网络资源 - Wikipedia] Present perfect:")
	assert.Contains(t, docs, "have/has")
}

func TestFormatDocsForPrompt_Empty(t *testing.T) {
	assert.Equal(t, "未找到相关学习资料。", formatDocsForPrompt(nil))
}

func TestFormatDocsForPrompt_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("长", 1200)
	docs := formatDocsForPrompt([]types.Passage{localDoc(long)})

	assert.Contains(t, docs, strings.Repeat("长", promptDocLimit))
	assert.NotContains(t, docs, strings.Repeat("长", promptDocLimit+1))
}

func TestFormatDocsForPrompt_UnknownEngineLabel(t *testing.T) {
	docs := formatDocsForPrompt([]types.Passage{webDoc("some web content", "", "")})
	assert.Contains(t, docs, "[网络资源 - 网络]:")
}

func TestBuildPrompt_WithoutContext(t *testing.T) {
	prompt := buildPrompt("现在完成时怎么用", "", []types.Passage{localDoc("资料内容")})

	assert.Contains(t, prompt, "专业的英语学习助手")
	assert.Contains(t, prompt, "**检索到的资料：**")
	assert.Contains(t, prompt, "资料内容")
	assert.Contains(t, prompt, "现在完成时怎么用")
	assert.NotContains(t, prompt, "对话历史上下文")
}

func TestBuildPrompt_WithContext(t *testing.T) {
	prompt := buildPrompt("继续", "📝 **对话历史 (最近1轮):**\n\n……", []types.Passage{localDoc("资料")})

	assert.Contains(t, prompt, "**对话历史上下文：**")
	assert.Contains(t, prompt, "最近1轮")
	assert.Contains(t, prompt, "**当前用户问题：**")
}

func TestAppendQualityInfo(t *testing.T) {
	report := types.QualityReport{
		QualityScore: 85.5,
		Breakdown:    types.SourceBreakdown{NumLocal: 3, NumWeb: 2},
	}
	out := appendQualityInfo("回答正文", report)

	assert.True(t, strings.HasPrefix(out, "回答正文\n\n---\n"))
	assert.Contains(t, out, "📊 **检索质量**: 85.5/100")
	assert.Contains(t, out, "📚 **本地文档**: 3 个")
	assert.Contains(t, out, "🌐 **网络资源**: 2 个")
	assert.NotContains(t, out, "💡 **建议**")
}

func TestAppendQualityInfo_WithRecommendations(t *testing.T) {
	report := types.QualityReport{
		QualityScore:    40,
		Recommendations: []string{"建议一", "建议二"},
	}
	out := appendQualityInfo("回答", report)
	assert.Contains(t, out, "💡 **建议**: 建议一, 建议二")
}
