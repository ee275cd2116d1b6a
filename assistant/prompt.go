package assistant

import (
	"fmt"
	"strings"

	"github.com/lingorag/lingorag/types"
)

// promptDocLimit 每条片段在提示词中的最大长度（字符）。
const promptDocLimit = 1000

// hybridPromptTemplate 混合检索（本地+网络资料）的回答模板。
const hybridPromptTemplate = `你是一个专业的英语学习助手。请根据提供的文档内容回答用户的问题。

要求：
1. 优先使用提供的相关文档信息进行回答
2. 如果有网络检索结果，请特别注明这是来自网络的信息
3. 给出具体的英文示例和用法说明
4. 如果文档中找不到相关信息，请诚实地说明
5. 回答要详细、准确、易懂

**检索到的资料：**
%s

**用户问题：**
%s

**回答：**`

// memoryPromptTemplate 带对话历史上下文的回答模板。
const memoryPromptTemplate = `你是一个专业的英语学习助手。请根据提供的文档和对话历史，全面回答用户的问题。

**对话历史上下文：**
%s

**检索到的学习资料：**
%s

**当前用户问题：**
%s

**回答要求：**
1. 仔细分析对话历史，理解用户的背景和之前的讨论
2. 结合检索到的资料给出准确的语法解释
3. 如果用户在追问，请基于之前的回答进行补充说明
4. 提供具体的英文示例和用法说明
5. 保持回答的连贯性和一致性
6. 如果发现了之前可能的错误，请主动纠正和澄清

**回答：**`

// buildPrompt 组装最终提示词。有历史上下文时使用记忆模板。
func buildPrompt(query, conversationContext string, passages []types.Passage) string {
	docs := formatDocsForPrompt(passages)
	if conversationContext != "" {
		return fmt.Sprintf(memoryPromptTemplate, conversationContext, docs, query)
	}
	return fmt.Sprintf(hybridPromptTemplate, docs, query)
}

// formatDocsForPrompt 给每条片段加来源标签并截断到单条长度上限。
func formatDocsForPrompt(passages []types.Passage) string {
	if len(passages) == 0 {
		return "未找到相关学习资料。"
	}

	formatted := make([]string, 0, len(passages))
	for _, p := range passages {
		var label string
		if p.Metadata.SourceType == types.SourceLocal {
			label = "[本地资料]"
		} else {
			engine := p.Metadata.Engine
			if engine == "" {
				engine = "网络"
			}
			label = fmt.Sprintf("[网络资源 - %s]", engine)
		}

		content := strings.TrimSpace(p.Content)
		if runes := []rune(content); len(runes) > promptDocLimit {
			content = string(runes[:promptDocLimit])
		}

		if p.Metadata.Title != "" {
			formatted = append(formatted, fmt.Sprintf("%s %s:\n%s", label, p.Metadata.Title, content))
		} else {
			formatted = append(formatted, fmt.Sprintf("%s:\n%s", label, content))
		}
	}
	return strings.Join(formatted, "\n\n")
}

// appendQualityInfo 在回答末尾附上检索质量概要。
func appendQualityInfo(answer string, report types.QualityReport) string {
	parts := []string{
		"---",
		fmt.Sprintf("📊 **检索质量**: %.1f/100", report.QualityScore),
		fmt.Sprintf("📚 **本地文档**: %d 个", report.Breakdown.NumLocal),
		fmt.Sprintf("🌐 **网络资源**: %d 个", report.Breakdown.NumWeb),
	}
	if len(report.Recommendations) > 0 {
		parts = append(parts, "💡 **建议**: "+strings.Join(report.Recommendations, ", "))
	}
	return answer + "\n\n" + strings.Join(parts, "\n")
}
