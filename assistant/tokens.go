package assistant

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// TokenCounter 统计文本的 token 数，用于提示词规模的观测。
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter 基于 tiktoken 编码的计数器。编码数据加载失败时回退
// 到 len/4 的字符估算并记录一次警告。
type TiktokenCounter struct {
	encoding string
	logger   *zap.Logger

	once    sync.Once
	enc     *tiktoken.Tiktoken
	initErr error
}

// NewTiktokenCounter 创建计数器。encoding 为空时使用 cl100k_base。
func NewTiktokenCounter(encoding string, logger *zap.Logger) *TiktokenCounter {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TiktokenCounter{encoding: encoding, logger: logger}
}

// init 延迟初始化编码（首次使用时可能下载数据）。
func (c *TiktokenCounter) init() error {
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding(c.encoding)
		if err != nil {
			c.initErr = err
			c.logger.Warn("tiktoken encoding unavailable, falling back to estimate",
				zap.String("encoding", c.encoding), zap.Error(err))
			return
		}
		c.enc = enc
	})
	return c.initErr
}

// Count 返回文本的 token 数，初始化失败时用 len/4 估算。
func (c *TiktokenCounter) Count(text string) int {
	if err := c.init(); err != nil {
		return len(text) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}
