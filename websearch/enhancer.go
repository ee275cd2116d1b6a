package websearch

import (
	"strings"
	"unicode/utf8"
)

// 语法领域触发词：命中任意一个且查询较短时，追加英文关键词以提高
// 英文搜索引擎的召回。数据驱动的词表，便于扩展。
var enhanceTriggerTerms = []string{
	"英语", "语法", "用法", "时态", "冠词",
}

// enhanceSuffix 追加到短查询后的固定英文后缀。
const enhanceSuffix = " English grammar rules examples"

// enhanceMaxQueryLen 仅对少于 20 个字符的查询做增强。
const enhanceMaxQueryLen = 20

// EnhanceQuery 改写短中文语法类查询：命中触发词且长度低于阈值时追加
// 固定英文后缀，否则原样返回。确定性，无副作用。
func EnhanceQuery(query string) string {
	lower := strings.ToLower(query)
	for _, term := range enhanceTriggerTerms {
		if strings.Contains(lower, term) {
			if utf8.RuneCountInString(query) < enhanceMaxQueryLen {
				return query + enhanceSuffix
			}
			return query
		}
	}
	return query
}
