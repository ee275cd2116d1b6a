// Package websearch 集成外部搜索引擎：DuckDuckGo 即时应答和维基百科
// 摘要/全文搜索。Adapter 把各引擎的原始结果过滤、打标后转为 web 来源
// 片段；单引擎失败只降级为空结果。短中文语法查询会先被 EnhanceQuery
// 追加英文关键词。
package websearch
