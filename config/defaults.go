// =============================================================================
// 📦 LingoRAG 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		LLM:       DefaultLLMConfig(),
		Knowledge: DefaultKnowledgeConfig(),
		Retrieval: DefaultRetrievalConfig(),
		WebSearch: DefaultWebSearchConfig(),
		Memory:    DefaultMemoryConfig(),
		Log:       DefaultLogConfig(),
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}

// DefaultLLMConfig 返回默认生成模型配置
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		BaseURL:     "http://localhost:11434",
		Model:       "qwen2.5:7b",
		Temperature: 0.7,
		Timeout:     2 * time.Minute,
		Encoding:    "cl100k_base",
	}
}

// DefaultKnowledgeConfig 返回默认知识库配置
func DefaultKnowledgeConfig() KnowledgeConfig {
	return KnowledgeConfig{
		Path: "knowledge.json",
	}
}

// DefaultRetrievalConfig 返回默认检索配置
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		Strategy:            "enhanced",
		SimilarityK:         5,
		DiversityFetchK:     20,
		HybridLexicalWeight: 0.5,
	}
}

// DefaultWebSearchConfig 返回默认网络搜索配置
func DefaultWebSearchConfig() WebSearchConfig {
	return WebSearchConfig{
		Enabled:             true,
		MaxResultsPerEngine: 2,
		EngineTimeout:       10 * time.Second,
		PauseInterval:       time.Second,
	}
}

// DefaultMemoryConfig 返回默认记忆配置
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Enabled:          true,
		MaxHistory:       10,
		MaxContextLength: 2000,
		HistoryFile:      "conversation_history.json",
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{"stdout"},
	}
}
