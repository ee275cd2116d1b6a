// Package config 提供 LingoRAG 的配置管理功能。
//
// 支持从默认值、YAML 文件和环境变量（LINGORAG_ 前缀）分层加载配置，
// 并在加载后做结构化验证。
package config
