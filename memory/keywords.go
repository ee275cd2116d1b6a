package memory

import "strings"

// 固定词表的关键词抽取：子串匹配，中英双语语法术语。
// 数据驱动的表，便于独立扩展和测试。
var englishGrammarTerms = []string{
	"present perfect", "past tense", "future tense", "conditionals",
	"articles", "prepositions", "conjunctions", "verbs", "nouns",
	"adjectives", "adverbs", "pronouns", "tense", "aspect",
	"grammar", "syntax", "clause", "phrase", "sentence",
}

var chineseGrammarTerms = []string{
	"现在完成时", "过去时", "将来时", "虚拟语气",
	"冠词", "介词", "连词", "动词", "名词",
	"形容词", "副词", "代词", "时态", "体态",
	"语法", "句法", "从句", "短语", "句子",
}

// 主题表：第一个命中的主题作为轮次摘要的主题。
var topicTerms = []string{"时态", "语法", "冠词", "虚拟语气", "条件句", "从句"}

// defaultTopic 没有命中任何主题时的通用标签。
const defaultTopic = "英语语法"

// ExtractKeywords 在文本中做固定词表的子串匹配，返回命中的术语。
// 结果按词表顺序去重，保证确定性。
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)

	var keywords []string
	seen := make(map[string]bool)
	for _, term := range append(append([]string{}, englishGrammarTerms...), chineseGrammarTerms...) {
		if seen[term] {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			seen[term] = true
			keywords = append(keywords, term)
		}
	}
	return keywords
}

// ExtractTopic 返回文本命中的第一个主题，未命中时返回通用标签。
func ExtractTopic(text string) string {
	lower := strings.ToLower(text)
	for _, topic := range topicTerms {
		if strings.Contains(lower, topic) {
			return topic
		}
	}
	return defaultTopic
}

// Summarize 生成轮次的一句话摘要。
func Summarize(userQuery string) string {
	return "用户询问了关于" + ExtractTopic(userQuery) + "的问题"
}
