// Package memory 管理对话记忆：记录问答轮次、抽取双语语法关键词、按
// 关键词重叠与新近度为历史打分，并在长度预算内拼装上下文。历史由
// Manager 独占持有，上限内先进先出，镜像到单一 JSON 文件。
package memory
