// Package llm 提供基于 Ollama 的文本生成客户端。
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// OllamaConfig Ollama 客户端配置
type OllamaConfig struct {
	// 服务地址，默认 http://localhost:11434
	BaseURL string
	// 模型名称
	Model string
	// 温度参数
	Temperature float64
	// 单次请求超时
	Timeout time.Duration
}

// OllamaClient 调用 Ollama /api/generate 的非流式客户端。
type OllamaClient struct {
	config OllamaConfig
	client *http.Client
	logger *zap.Logger
}

// NewOllamaClient 创建 Ollama 客户端
func NewOllamaClient(cfg OllamaConfig, logger *zap.Logger) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "qwen2.5:7b"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// generateRequest /api/generate 请求体
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// generateResponse /api/generate 响应体
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate 生成一段回答。失败时返回带上下文的错误，由调用方决定如何
// 呈现给用户。
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: false,
	}
	if c.config.Temperature > 0 {
		reqBody.Options = map[string]any{"temperature": c.config.Temperature}
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	c.logger.Debug("ollama generate finished",
		zap.String("model", c.config.Model),
		zap.Duration("elapsed", time.Since(start)))

	return genResp.Response, nil
}

// Model 返回配置的模型名。
func (c *OllamaClient) Model() string {
	return c.config.Model
}
