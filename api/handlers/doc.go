// Package handlers 提供 LingoRAG 的 HTTP 请求处理器：
// 问答、对话记忆管理和健康检查。
package handlers
