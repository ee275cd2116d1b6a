// Package types 定义检索问答助手的核心数据模型与统一错误码。
//
// Passage 是流水线各阶段共享的值类型；QualityReport 为派生数据，
// 每次分析重新计算。Error 携带错误码，可恢复与不可恢复的失败
// 共用同一套分类。
package types
