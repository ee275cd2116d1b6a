// Package assistant 实现问答流水线的编排层：并行发起本地检索、网络搜索
// 和对话历史上下文拼装，合并结果后构建提示词并调用生成器。
//
// 各可选阶段（网络搜索、记忆持久化）独立降级，主回答路径只在空查询、
// 本地索引不可用（仅本地模式）和生成失败时返回错误。
package assistant
