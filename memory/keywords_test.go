// 关键词与主题抽取测试。
package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"english terms", "How do I use the present perfect tense?", []string{"present perfect", "tense"}},
		{"chinese terms", "现在完成时和过去时的区别", []string{"现在完成时", "过去时"}},
		{"mixed", "articles 冠词怎么用", []string{"articles", "冠词"}},
		{"case insensitive", "GRAMMAR and Tense", []string{"tense", "grammar"}},
		{"no match", "what is the weather today", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.text))
		})
	}
}

func TestExtractKeywords_OrderIsTableOrder(t *testing.T) {
	// 无论出现顺序如何，结果按词表顺序返回
	got := ExtractKeywords("句子里先出现语法后出现时态")
	assert.Equal(t, []string{"时态", "语法", "句子"}, got)
}

func TestExtractTopic(t *testing.T) {
	assert.Equal(t, "时态", ExtractTopic("现在完成时属于哪种时态"))
	assert.Equal(t, "冠词", ExtractTopic("冠词的用法"))
	assert.Equal(t, defaultTopic, ExtractTopic("随便聊聊"))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "用户询问了关于时态的问题", Summarize("时态怎么用"))
	assert.Equal(t, "用户询问了关于英语语法的问题", Summarize("hello"))
}
